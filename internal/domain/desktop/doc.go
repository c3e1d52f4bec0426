// Package desktop hosts one window manager per visitor session.
//
// A window.Manager is single-threaded; each Session guards its manager with
// its own mutex so requests against different desktops never contend.
// Sessions idle longer than the configured TTL are removed by Sweep.
package desktop
