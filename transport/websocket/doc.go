// Package websocket pushes board updates to browser clients.
//
// A central Hub owns every connection. Clients subscribe to one session with
// /ws?session=<id>; the first frame is a "hello" message carrying the
// current board and every later frame is a "board" message sent after an
// applied transition, including the delayed flip-back of a mismatch.
//
// Frames are JSON:
//
//	{"session_id":"a1b2","event":"board","board":{...}}
//
// Clients do not send game input over the socket. Reveals go through the
// REST API, which keeps a single write path into the engine.
//
// Usage:
//
//	hub := websocket.NewHub(log.Logger)
//	go hub.Run(ctx)
//	svc := service.NewGameService(sessions, configs,
//		service.WithStateListener(hub.BroadcastBoard))
package websocket
