// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI mirrors the web app's two routes:
//  1. [RouteHome] ("/") : Browse leagues, then the upcoming fixtures of one league
//  2. [RouteProfile] ("/profile") : Show the signed-in user's avatar initial, name and email
//
// A navbar line on every screen shows the current route and the signed-in user, read from the session store on each
// render. Navigation actions send BUTTON_CLICK beacons whose screen is the route the action started from; logging out
// goes through the session store.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
