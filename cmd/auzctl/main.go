package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"auzland/internal/gateway"
	"auzland/internal/listings"
)

// auzctl is a small operator tool that talks to a running AuzLand service
// through the same gateway the site uses: dump the collection, push a CSV
// back under version control, or resolve media keys for a listing.
func main() {
	var (
		base    = flag.String("base", "http://localhost:8080", "service base URL")
		timeout = flag.Duration("timeout", 60*time.Second, "overall timeout")
	)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	g := gateway.New(*base)
	var err error
	switch cmd := flag.Arg(0); cmd {
	case "dump":
		err = dump(ctx, g)
	case "push":
		err = push(ctx, g, flag.Arg(1))
	case "media":
		err = media(ctx, g, flag.Arg(1))
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: auzctl [flags] <command>

commands:
  dump           fetch the collection and print it as JSON
  push <file>    upload a CSV file, honoring the current version token
  media <id>     resolve presigned URLs for one listing's media keys

flags:
`)
	flag.PrintDefaults()
}

func dump(ctx context.Context, g *gateway.Gateway) error {
	items, version, err := g.FetchListings(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%d listings, version %s\n", len(items), version)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

// push fetches first so the write carries the live version token; a conflict
// means someone saved between our fetch and put.
func push(ctx context.Context, g *gateway.Gateway, path string) error {
	if path == "" {
		return errors.New("push needs a CSV file path")
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	recs := listings.ParseCSV(string(body), func(line, got, want int) {
		fmt.Fprintf(os.Stderr, "skipping line %d: %d fields, want %d\n", line, got, want)
	})
	items := listings.NormalizeAll(recs)
	if len(items) == 0 {
		return errors.New("no usable rows in file, refusing to wipe the collection")
	}

	_, version, err := g.FetchListings(ctx)
	if err != nil {
		return err
	}
	newVersion, err := g.SaveListings(ctx, items, version)
	var conflict *gateway.ConflictError
	if errors.As(err, &conflict) {
		return fmt.Errorf("collection changed while pushing, rerun to retry: %w", err)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "saved %d listings, version %s\n", len(items), newVersion)
	return nil
}

func media(ctx context.Context, g *gateway.Gateway, id string) error {
	if id == "" {
		return errors.New("media needs a listing id")
	}
	items, _, err := g.FetchListings(ctx)
	if err != nil {
		return err
	}
	for _, it := range items {
		if it.ID != id {
			continue
		}
		keys := listings.ExtractMediaKeys(it.Media)
		if len(keys) == 0 {
			fmt.Println("no media keys on listing", id)
			return nil
		}
		for _, u := range g.ResolveAllMedia(ctx, keys) {
			fmt.Println(u)
		}
		return nil
	}
	return fmt.Errorf("no listing with id %q", id)
}
