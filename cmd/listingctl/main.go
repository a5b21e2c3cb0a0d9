// Command listingctl is a terminal client for the listing service: sign in,
// watch listings live, upload new listings and moderate pending ones.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"listinghub-go/internal/client/livequery"
	"listinghub-go/internal/client/moderation"
	"listinghub-go/internal/client/projection"
	"listinghub-go/internal/client/rest"
	"listinghub-go/internal/client/session"
	"listinghub-go/internal/client/upload"
	"listinghub-go/internal/config"
	"listinghub-go/internal/db"
	"listinghub-go/internal/models"
)

const refreshTokenEnv = "LISTINGHUB_REFRESH_TOKEN"

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: listingctl <command> [flags]

Commands:
  login        sign in with email/password and print a session refresh token
  watch        live view of your own listings
  admin-watch  live moderation queue (admin), switchable between pending/all
  upload       upload an image and create a listing
  approve      approve a pending listing (admin)
  reject       reject a pending listing (admin)
  delete       delete one of your listings`)
}

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	command := os.Args[1]
	args := os.Args[2:]

	cfg, err := config.LoadConfig()
	if err != nil {
		fatal(err)
	}
	if err := cfg.ValidateClient(); err != nil {
		fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch command {
	case "login":
		err = runLogin(ctx, cfg, args)
	case "watch":
		err = runWatch(ctx, cfg)
	case "admin-watch":
		err = runAdminWatch(ctx, cfg, args)
	case "upload":
		err = runUpload(ctx, cfg, args)
	case "approve":
		err = runSetStatus(ctx, cfg, args, models.StatusApproved)
	case "reject":
		err = runSetStatus(ctx, cfg, args, models.StatusRejected)
	case "delete":
		err = runDelete(ctx, cfg, args)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "listingctl:", err)
	os.Exit(1)
}

// resolveSession restores the session from the refresh token in the
// environment and fails when no signed-in identity results.
func resolveSession(ctx context.Context, provider *session.Provider) (*session.Identity, error) {
	if err := provider.Resolve(ctx, os.Getenv(refreshTokenEnv)); err != nil {
		return nil, err
	}
	identity := provider.Current().Identity
	if identity == nil {
		return nil, fmt.Errorf("not signed in; run 'listingctl login' and export %s", refreshTokenEnv)
	}
	return identity, nil
}

func runLogin(ctx context.Context, cfg *config.Config, args []string) error {
	flags := flag.NewFlagSet("login", flag.ExitOnError)
	email := flags.String("email", "", "account email")
	if err := flags.Parse(args); err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	if *email == "" {
		fmt.Print("Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		*email = strings.TrimSpace(line)
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return err
	}

	clients, err := db.InitFirebase(ctx, cfg)
	if err != nil {
		return err
	}
	defer clients.Close()

	provider := session.NewProvider(cfg.FirebaseWebAPIKey,
		session.NewFirestoreAdminLookup(clients.Firestore))
	if err := provider.SignIn(ctx, *email, string(password)); err != nil {
		return err
	}
	identity := provider.Current().Identity

	api := rest.NewClient(cfg.APIBaseURL, provider)
	if _, err := api.InitializeProfile(ctx); err != nil {
		return err
	}

	fmt.Printf("Signed in as %s (uid %s", identity.Email, identity.UID)
	if identity.IsAdmin {
		fmt.Print(", admin")
	}
	fmt.Println(")")
	fmt.Printf("export %s=%s\n", refreshTokenEnv, identity.RefreshToken)
	return nil
}

func runWatch(ctx context.Context, cfg *config.Config) error {
	clients, err := db.InitFirebase(ctx, cfg)
	if err != nil {
		return err
	}
	defer clients.Close()

	provider := session.NewProvider(cfg.FirebaseWebAPIKey,
		session.NewFirestoreAdminLookup(clients.Firestore))
	identity, err := resolveSession(ctx, provider)
	if err != nil {
		return err
	}

	view := livequery.NewView(livequery.NewFirestoreSubscriber(clients.Firestore))
	defer view.Close()
	snapshots := view.SetQuery(ctx, livequery.OwnerQuery(db.ListingsCollection, identity.UID))

	fmt.Printf("Watching listings for %s (Ctrl-C to stop)\n", identity.Email)
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-snapshots:
			if !ok {
				return fmt.Errorf("live subscription ended")
			}
			printProjection(projection.Project(snap.Listings))
		}
	}
}

func runAdminWatch(ctx context.Context, cfg *config.Config, args []string) error {
	flags := flag.NewFlagSet("admin-watch", flag.ExitOnError)
	filter := flags.String("filter", "pending", "initial filter: pending or all")
	if err := flags.Parse(args); err != nil {
		return err
	}

	clients, err := db.InitFirebase(ctx, cfg)
	if err != nil {
		return err
	}
	defer clients.Close()

	provider := session.NewProvider(cfg.FirebaseWebAPIKey,
		session.NewFirestoreAdminLookup(clients.Firestore))
	identity, err := resolveSession(ctx, provider)
	if err != nil {
		return err
	}
	if !identity.IsAdmin {
		return fmt.Errorf("admin access required")
	}

	queryFor := func(filter string) (livequery.Query, error) {
		switch filter {
		case "pending":
			return livequery.PendingQuery(db.ListingsCollection), nil
		case "all":
			return livequery.AllQuery(db.ListingsCollection), nil
		default:
			return livequery.Query{}, fmt.Errorf("unknown filter %q (want pending or all)", filter)
		}
	}

	query, err := queryFor(*filter)
	if err != nil {
		return err
	}

	view := livequery.NewView(livequery.NewFirestoreSubscriber(clients.Firestore))
	defer view.Close()
	snapshots := view.SetQuery(ctx, query)

	// Typing "pending" or "all" swaps the filter; the old subscription is
	// torn down before the new one starts.
	filters := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case filters <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Printf("Moderation queue, filter=%s (type 'pending' or 'all' to switch, Ctrl-C to stop)\n", *filter)
	for {
		select {
		case <-ctx.Done():
			return nil
		case name := <-filters:
			query, err := queryFor(name)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				continue
			}
			snapshots = view.SetQuery(ctx, query)
			fmt.Printf("filter=%s\n", name)
		case snap, ok := <-snapshots:
			if !ok {
				return fmt.Errorf("live subscription ended")
			}
			printProjection(projection.Project(snap.Listings))
		}
	}
}

func runUpload(ctx context.Context, cfg *config.Config, args []string) error {
	flags := flag.NewFlagSet("upload", flag.ExitOnError)
	file := flags.String("file", "", "path to the image file")
	title := flags.String("title", "", "listing title")
	description := flags.String("description", "", "listing description")
	keywords := flags.String("keywords", "", "comma-separated keywords")
	useAI := flags.Bool("ai", false, "generate title/description/keywords from the image")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("-file is required")
	}
	if cfg.FirebaseStorageBucket == "" {
		return fmt.Errorf("FIREBASE_STORAGE_BUCKET is required for uploads")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		return err
	}

	clients, err := db.InitFirebase(ctx, cfg)
	if err != nil {
		return err
	}
	defer clients.Close()

	provider := session.NewProvider(cfg.FirebaseWebAPIKey,
		session.NewFirestoreAdminLookup(clients.Firestore))
	if _, err := resolveSession(ctx, provider); err != nil {
		return err
	}

	api := rest.NewClient(cfg.APIBaseURL, provider)
	pipeline := upload.NewPipeline(api, upload.NewBucketStorage(clients.Bucket), provider, cfg.MaxUploadBytes)

	if err := pipeline.SelectImage(filepath.Base(*file), data); err != nil {
		return err
	}

	if *useAI {
		fmt.Println("Generating description...")
		if err := pipeline.GenerateDescription(ctx); err != nil {
			return err
		}
		draft := pipeline.Draft()
		fmt.Printf("Generated title: %s\nGenerated description: %s\nGenerated keywords: %s\n",
			draft.Title, draft.Description, strings.Join(draft.Keywords, ", "))
	}

	// Explicit flags override whatever generation produced.
	if *title != "" {
		pipeline.SetTitle(*title)
	}
	if *description != "" {
		pipeline.SetDescription(*description)
	}
	if *keywords != "" {
		parts := strings.Split(*keywords, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		pipeline.SetKeywords(parts)
	}

	id, err := pipeline.Submit(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Created listing %s (pending review)\n", id)
	return nil
}

func runSetStatus(ctx context.Context, cfg *config.Config, args []string, status models.Status) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: listingctl %s <listing-id>", status)
	}

	provider := session.NewProvider(cfg.FirebaseWebAPIKey, nil)
	if _, err := resolveSession(ctx, provider); err != nil {
		return err
	}

	dispatcher := moderation.NewDispatcher(rest.NewClient(cfg.APIBaseURL, provider), nil)
	if err := dispatcher.SetStatus(ctx, args[0], status); err != nil {
		return err
	}
	fmt.Printf("Listing %s is now %s\n", args[0], status)
	return nil
}

func runDelete(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: listingctl delete <listing-id>")
	}

	provider := session.NewProvider(cfg.FirebaseWebAPIKey, nil)
	if _, err := resolveSession(ctx, provider); err != nil {
		return err
	}

	confirm := func(listingID string) bool {
		fmt.Printf("Delete listing %s? This cannot be undone from here. [y/N] ", listingID)
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}

	dispatcher := moderation.NewDispatcher(rest.NewClient(cfg.APIBaseURL, provider), confirm)
	if err := dispatcher.DeleteListing(ctx, args[0]); err != nil {
		if err == moderation.ErrNotConfirmed {
			fmt.Println("Aborted.")
			return nil
		}
		return err
	}
	fmt.Printf("Listing %s deleted\n", args[0])
	return nil
}

func printProjection(p projection.Projection) {
	fmt.Printf("--- %d listings (%d pending, %d approved, %d rejected) ---\n",
		len(p.All), len(p.Pending), len(p.Approved), len(p.Rejected))
	for _, l := range p.All {
		fmt.Printf("%-10s %-22s %s\n", l.Status, l.ID, l.Title)
	}
}
