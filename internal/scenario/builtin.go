package scenario

// RealtimeUpdates verifies that game state pushed over the WebSocket is
// rendered after connecting from the Poker Online screen: the player table
// and pot only appear once the server's initial state message arrives.
func RealtimeUpdates() *Scenario {
	return &Scenario{
		Name: "realtime-updates",
		Steps: []Step{
			{Action: ActionNavigate, URL: "/"},
			{Action: ActionClick, Role: "link", Name: "Poker Online"},
			{Action: ActionAssertVisible, Role: "heading", Name: "Poker Online"},
			{Action: ActionClick, Role: "button", Name: "Connect"},
			{Action: ActionAssertVisible, Role: "cell", Name: "Player", TimeoutMS: 10000},
			{Action: ActionAssertText, Text: "Pot: "},
		},
	}
}

// AutostartSnapshot verifies that an autostarted table renders player bets,
// waiting on the rendered pot text rather than a wall-clock delay.
func AutostartSnapshot() *Scenario {
	return &Scenario{
		Name: "autostart-snapshot",
		Steps: []Step{
			{Action: ActionNavigate, URL: "/?autostart=true"},
			{Action: ActionAssertText, Text: "Pot: ", TimeoutMS: 10000},
		},
	}
}

// Builtin returns the named built-in scenario, if one exists.
func Builtin(name string) (*Scenario, bool) {
	switch name {
	case "", "realtime-updates":
		return RealtimeUpdates(), true
	case "autostart-snapshot":
		return AutostartSnapshot(), true
	}
	return nil, false
}
