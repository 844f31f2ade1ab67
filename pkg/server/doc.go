// Package server exposes playback controllers over HTTP.
//
// Every player gets a random id and a set of transport routes under
// /api/players/{id}. The routes under /api/all drive every player at once
// through a [playback.Synchronizer]. Rendered frames are served as SVG and
// cached through [cache.Cache]. Frame changes and shared progress are pushed
// to websocket clients connected to /ws as JSON [Event] values.
//
// # Routes
//
//	GET  /api/players                   list players with their state
//	GET  /api/players/{id}              state of one player
//	POST /api/players/{id}/{action}     play, pause, toggle, forward, backward, reset
//	POST /api/players/{id}/seek/{index} go to a frame
//	POST /api/players/{id}/speed/{ms}   set the base delay
//	GET  /api/players/{id}/frames/{index}[?format=dot]
//	GET  /api/all                       shared progress
//	POST /api/all/{action}              same actions for every player
//	POST /api/all/seek/{index}
//	POST /api/all/speed/{ms}
//	GET  /ws                            event stream
package server
