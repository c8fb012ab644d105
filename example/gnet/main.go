// FILE: example/gnet/main.go
package main

import (
	"github.com/panjf2000/gnet/v2"

	"github.com/lixenwraith/logsink"
	"github.com/lixenwraith/logsink/compat"
)

// Example gnet event handler
type echoServer struct {
	gnet.BuiltinEventEngine
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	c.Write(buf)
	return gnet.None
}

func main() {
	hub := logsink.NewHub()
	engine, err := logsink.NewBuilder().
		Directory("/var/log/gnet").
		Naming(logsink.NamingByCount).
		SizeRotation(true, 4<<20).
		Product("echo", "1.0.0").
		Source(hub).
		Build()
	if err != nil {
		panic(err)
	}
	if err := engine.Init(); err != nil {
		panic(err)
	}
	defer engine.Shutdown()

	gnetAdapter := compat.NewGnetAdapter(hub, compat.WithDebug(true))

	// Configure gnet server with the logger
	err = gnet.Run(
		&echoServer{},
		"tcp://127.0.0.1:9000",
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetAdapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		hub.Exception(err)
	}
}
