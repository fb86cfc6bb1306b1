// Package remote carries change lists over a websocket.
//
// The driver side serves one Session per connection: the Session mounts a
// fresh root, ships every change batch as a FrameChanges frame and feeds
// FrameEvent frames from the peer into the driver. The peer side is a Mirror
// that applies received batches to a local surface.Surface, in order:
//
//	srv := remote.NewServer(remote.ServerConfig{
//	    Root: func() vdom.Renderer { return NewApp() },
//	})
//	http.ListenAndServe(":8080", srv.Handler())
//
//	mem := surface.NewMemory()
//	m, err := remote.Dial(ctx, "ws://localhost:8080/ws", mem)
//	...
//	batch, err := m.Next()
//
// A batch that arrives out of sequence is fatal for the mirror: the surface
// would no longer match the driver's physical tree.
package remote
