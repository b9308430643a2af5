// Package feed replays a scripted location feed. A script is a text file
// with one step per line: platform signals (authorization changes, fixes,
// region transitions, failures), pauses, and the user's answers to the
// exit prompt. Service implements location.Service over the script, and
// Player walks the steps.
//
// Script syntax:
//
//	# comment
//	authorize always|when_in_use|denied|restricted|not_determined
//	location <lat> <lon> [accuracy]
//	home <lat> <lon> [radius] [name...]
//	item <title...>
//	[@<RFC3339>] exit [region]
//	[@<RFC3339>] enter [region]
//	fail [reason...]
//	wait <duration>
//	test
//	check <title...>
//	complete | rush | dismiss
//
// A region left out of exit, enter or fail defaults to the region being
// monitored.
package feed
