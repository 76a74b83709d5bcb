package main

import (
	"context"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/sceneforge/scene-backend/internal/editor"
)

func apiClient() *editor.Client {
	base := os.Getenv("API_URL")
	if base == "" {
		base = "http://localhost:3001/api"
	}
	return editor.NewClient(base)
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func runList() {
	ctx, cancel := commandContext()
	defer cancel()

	items, err := apiClient().ListProjects(ctx)
	if err != nil {
		log.Fatalf("list: %v", err)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tUPDATED")
	for _, p := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Name, p.UpdatedAt.Format(time.RFC3339))
	}
	tw.Flush()
}

func runPull(args []string) {
	if len(args) < 2 {
		log.Fatal("usage: scenectl pull <project-id> <file.json>")
	}

	ctx, cancel := commandContext()
	defer cancel()

	session := editor.NewSession(apiClient())
	if err := session.Load(ctx, args[0]); err != nil {
		log.Fatalf("pull: %v", err)
	}
	if err := session.Export(args[1]); err != nil {
		log.Fatalf("pull: %v", err)
	}
	log.Printf("Exported %d objects to %s", len(session.Objects()), args[1])
}

func runPush(args []string) {
	if len(args) < 2 {
		log.Fatal("usage: scenectl push <file.json> <name>")
	}

	ctx, cancel := commandContext()
	defer cancel()

	session := editor.NewSession(apiClient())
	if err := session.Import(args[0]); err != nil {
		log.Fatalf("push: %v", err)
	}

	p, err := session.Save(ctx, args[1])
	if err != nil {
		log.Fatalf("push: %v", err)
	}
	log.Printf("Saved project %s (%s)", p.Name, p.ID)
}

func runThumbnail(args []string) {
	if len(args) < 2 {
		log.Fatal("usage: scenectl thumbnail <project-id> <image-file>")
	}

	ctx, cancel := commandContext()
	defer cancel()

	data, err := os.ReadFile(args[1])
	if err != nil {
		log.Fatalf("thumbnail: %v", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(args[1]))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := apiClient().UploadThumbnail(ctx, args[0], filepath.Base(args[1]), contentType, data)
	if err != nil {
		log.Fatalf("thumbnail: %v", err)
	}
	log.Printf("Thumbnail uploaded: %s", url)
}
