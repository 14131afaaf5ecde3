package main

import (
	"flag"
	"os"

	"github.com/golang/glog"

	"github.com/Treecase/Raytracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	scenesDir := flag.String("scenes", "scenes", "Directory of scene files offered by the server")
	flag.Parse()
	defer glog.Flush()

	// Create and start web server
	webServer := server.NewServer(*port, *scenesDir)

	glog.Infof("Quad Raytracer Web Server")
	glog.Infof("Visit http://localhost:%d to start rendering", *port)

	if err := webServer.Start(); err != nil {
		glog.Errorf("Error starting server: %v", err)
		glog.Flush()
		os.Exit(1)
	}
}
