// Command layerhash decodes fragment addresses and runs scripted navigation
// sessions against an in-memory browser.
//
//	layerhash decode 'http://app.test/#/caf%C3%A9?q=1'
//	layerhash simulate dialog.yaml --no-pushstate --metrics
package main
