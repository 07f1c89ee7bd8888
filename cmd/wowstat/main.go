// Package main provides the wowstat command line tool. It tracks weekly
// progress of World of Warcraft characters from the WoW Stat Tracker
// addon export.
package main

import "github.com/entrhq/wowstat/cmd/wowstat/root"

func main() {
	root.Execute()
}
