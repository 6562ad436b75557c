// Package guildconfig keeps an in-memory copy of every server's ticket configuration and notices
// when a server's ticket channel becomes newly configured.
//
// The Cache is refreshed from the store on a fixed interval by the Poller. Each refresh replaces the
// whole snapshot, so readers holding a Snapshot never see a partially updated mapping. The Monitor
// compares each new snapshot with the previous one and hands activations to an Announcer.
package guildconfig
