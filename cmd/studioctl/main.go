// Command studioctl is a small operator CLI for the studio API.
//
//	studioctl [flags] health|orders|projects
//	studioctl [flags] project-add -title T -category C -image URL [-description D]
//	studioctl [flags] project-rm ID
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/satriastudio/studio-be/internal/adminclient"
	"github.com/satriastudio/studio-be/internal/logging"
	"github.com/satriastudio/studio-be/internal/models/dto"
)

func main() {
	_ = godotenv.Load()
	logging.Init("studioctl")
	log := logging.Logger

	baseURL := flag.String("url", envOr("STUDIO_API_URL", "http://localhost:8080"), "API base URL (or STUDIO_API_URL)")
	username := flag.String("username", os.Getenv("ADMIN_USERNAME"), "admin username (or ADMIN_USERNAME)")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (or ADMIN_PASSWORD)")
	timeout := flag.Duration("timeout", 30*time.Second, "overall request timeout")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	client, err := adminclient.New(*baseURL, *username, *password)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	out, err := run(ctx, client, flag.Arg(0), flag.Args()[1:])
	if err != nil {
		cancel()
		log.Fatal(err)
	}
	if out != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			log.Fatalf("write output: %v", err)
		}
	}
}

func run(ctx context.Context, c *adminclient.Client, cmd string, args []string) (any, error) {
	switch cmd {
	case "health":
		return c.Health(ctx)
	case "orders":
		return c.ListOrders(ctx)
	case "projects":
		return c.ListProjects(ctx)
	case "project-add":
		fs := flag.NewFlagSet("project-add", flag.ExitOnError)
		req := dto.CreateProjectRequest{}
		fs.StringVar(&req.Title, "title", "", "project title")
		fs.StringVar(&req.Category, "category", "", "project category")
		fs.StringVar(&req.Description, "description", "", "project description")
		fs.StringVar(&req.ImageURL, "image", "", "image URL or site path")
		_ = fs.Parse(args)
		return c.CreateProject(ctx, req)
	case "project-rm":
		if len(args) != 1 {
			return nil, fmt.Errorf("project-rm takes exactly one project id")
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid project id %q", args[0])
		}
		if err := c.DeleteProject(ctx, id); err != nil {
			return nil, err
		}
		return dto.MessageResponse{Message: "project deleted"}, nil
	default:
		return nil, fmt.Errorf("unknown command %q", cmd)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: studioctl [flags] health|orders|projects|project-add|project-rm\n")
	flag.PrintDefaults()
}
