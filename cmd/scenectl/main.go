package main

import (
	"log"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: scenectl <list|pull|push|thumbnail> ...")
	}

	switch os.Args[1] {
	case "list":
		runList()
	case "pull":
		runPull(os.Args[2:])
	case "push":
		runPush(os.Args[2:])
	case "thumbnail":
		runThumbnail(os.Args[2:])
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}
