// Package discovery advertises relays on the local network over mDNS/DNS-SD
// and lets clients find them.
package discovery
