package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/samber/do/v2"

	"github.com/fluentview/fluentview-client/internal/domain"
	domainerrors "github.com/fluentview/fluentview-client/internal/errors"
	"github.com/fluentview/fluentview-client/internal/service"
)

func runCommand(ctx context.Context, injector do.Injector, command string, args []string) error {
	switch command {
	case "login":
		return runLogin(ctx, injector)
	case "status":
		return runStatus(ctx, injector)
	case "refresh":
		return runRefresh(ctx, injector)
	case "videos":
		return runVideos(ctx, injector, args)
	case "series":
		return runSeries(ctx, injector)
	case "watch":
		return runWatch(ctx, injector, args)
	case "log":
		return runLog(ctx, injector, args)
	case "logout":
		return runLogout(ctx, injector)
	default:
		return fmt.Errorf("unknown command %q (try: login, status, refresh, videos, series, watch, log, logout)", command)
	}
}

// currentToken returns the persisted token or a friendly error when logged out.
func currentToken(ctx context.Context, injector do.Injector) (string, error) {
	auth := do.MustInvoke[*service.AuthService](injector)
	token, err := auth.Token(ctx)
	if domainerrors.Is(err, domainerrors.ErrUnauthorized) {
		return "", fmt.Errorf("not logged in, run 'fluentview login' first")
	}
	return token, err
}

func prompt(label string) (string, error) {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func runLogin(ctx context.Context, injector do.Injector) error {
	auth := do.MustInvoke[*service.AuthService](injector)

	tempToken, err := auth.NewEphemeralAccount(ctx)
	if err != nil {
		return err
	}

	email, err := prompt("Email: ")
	if err != nil {
		return err
	}
	if err := auth.Register(ctx, tempToken, service.RegisterRequest{Email: email}); err != nil {
		return err
	}
	fmt.Println("A verification code has been sent to your email.")

	code, err := prompt("Code: ")
	if err != nil {
		return err
	}
	if _, err := auth.Verify(ctx, tempToken, service.VerifyRequest{Email: email, Code: code}); err != nil {
		return err
	}

	fmt.Println("Logged in.")
	return nil
}

func runStatus(ctx context.Context, injector do.Injector) error {
	progress := do.MustInvoke[*service.ProgressService](injector)

	token, err := currentToken(ctx, injector)
	if err != nil {
		return err
	}

	if _, err := progress.Initialize(ctx, token); err != nil {
		return err
	}

	// Initialize reconciles in the background; for a one-shot command we want
	// the fresh numbers, so reconcile again synchronously. Fall back to the
	// cached state when the server is unreachable.
	state, err := progress.Reconcile(ctx, token)
	if err != nil {
		fmt.Println("(offline, showing cached progress)")
		state = progress.State()
	}

	printProgress(state)
	return nil
}

func runRefresh(ctx context.Context, injector do.Injector) error {
	progress := do.MustInvoke[*service.ProgressService](injector)

	token, err := currentToken(ctx, injector)
	if err != nil {
		return err
	}

	state, err := progress.Refresh(ctx, token)
	if err != nil {
		return err
	}

	printProgress(state)
	return nil
}

func printProgress(state domain.ProgressState) {
	fmt.Printf("%s: %d/%d minutes watched", state.DateString, state.CurrentMinutes, state.GoalMinutes)
	if state.GoalReached {
		fmt.Print("  goal reached!")
	}
	fmt.Println()
}

func runVideos(ctx context.Context, injector do.Injector, args []string) error {
	catalog := do.MustInvoke[*service.CatalogService](injector)

	opts, err := parseFilterArgs(args)
	if err != nil {
		return err
	}

	token, err := currentToken(ctx, injector)
	if err != nil {
		return err
	}

	videos, err := catalog.Videos(ctx, token)
	if err != nil {
		return err
	}

	for _, v := range service.FilterVideos(videos, opts) {
		level := v.Level
		if level == "" {
			level = "-"
		}
		fmt.Printf("%-26s %-12s %4dm  %s\n", v.ID, level, v.Duration/60, v.Title)
	}
	return nil
}

// parseFilterArgs reads "level=beginner,intermediate" and "sort=easy" style
// arguments for the videos command.
func parseFilterArgs(args []string) (service.FilterOptions, error) {
	var opts service.FilterOptions
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found {
			return opts, fmt.Errorf("invalid filter %q, expected level=... or sort=...", arg)
		}
		switch key {
		case "level":
			opts.Levels = strings.Split(value, ",")
		case "sort":
			opts.Sort = value
		default:
			return opts, fmt.Errorf("unknown filter %q", key)
		}
	}
	return opts, nil
}

func runSeries(ctx context.Context, injector do.Injector) error {
	catalog := do.MustInvoke[*service.CatalogService](injector)

	token, err := currentToken(ctx, injector)
	if err != nil {
		return err
	}

	series, err := catalog.Series(ctx, token)
	if err != nil {
		return err
	}

	for _, s := range series {
		fmt.Printf("%-26s %3d episodes  %s\n", s.ID, s.NumberOfEpisodes, s.Title)
	}
	return nil
}

// consoleSource adapts position reports typed on stdin into a playback source.
// The real playback happens in an external player; the user reports how far
// they have gotten.
type consoleSource struct {
	mu      sync.Mutex
	pos     float64
	playing bool
}

func (c *consoleSource) Position() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos
}

func (c *consoleSource) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = true
}

func (c *consoleSource) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = false
}

func (c *consoleSource) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

func (c *consoleSource) report(pos float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pos = pos
}

func runWatch(ctx context.Context, injector do.Injector, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: fluentview watch <video-id>")
	}

	player := do.MustInvoke[*service.PlayerService](injector)

	token, err := currentToken(ctx, injector)
	if err != nil {
		return err
	}

	session, err := player.Start(ctx, token, args[0])
	if err != nil {
		return err
	}

	video := session.Video()
	fmt.Printf("Watching: %s\n", video.Title)
	if url := session.StreamURL(); url != "" {
		fmt.Printf("Stream:   %s\n", url)
	} else {
		fmt.Println("Stream:   (no playable source)")
	}
	fmt.Println("Play the stream in your player. Report your position in seconds")
	fmt.Println("as you go (e.g. '120'), or 'q' to finish and log the session.")

	source := &consoleSource{}
	session.Attach(source)
	session.TogglePlayback()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "q" || line == "quit" {
			break
		}
		pos, err := strconv.ParseFloat(line, 64)
		if err != nil || pos < 0 {
			fmt.Println("Enter a position in seconds, or 'q' to finish.")
			continue
		}
		source.report(pos)
	}

	logged := session.Finish(ctx, token)
	watched := session.WatchedSeconds()
	if logged {
		fmt.Printf("Logged %d seconds of watch time.\n", watched)
	} else {
		fmt.Printf("Session over (%d seconds, nothing logged).\n", watched)
	}
	return nil
}

func runLog(ctx context.Context, injector do.Injector, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: fluentview log <title> <seconds>")
	}

	seconds, err := strconv.Atoi(args[1])
	if err != nil || seconds <= 0 {
		return fmt.Errorf("seconds must be a positive number, got %q", args[1])
	}

	progress := do.MustInvoke[*service.ProgressService](injector)

	token, err := currentToken(ctx, injector)
	if err != nil {
		return err
	}

	logged, err := progress.LogWatchSession(ctx, token, args[0], seconds)
	if err != nil {
		return err
	}
	if !logged {
		fmt.Printf("Sessions under %d seconds are not logged.\n", domain.MinLoggableSeconds)
		return nil
	}

	printProgress(progress.State())
	return nil
}

func runLogout(ctx context.Context, injector do.Injector) error {
	auth := do.MustInvoke[*service.AuthService](injector)

	if err := auth.Logout(ctx); err != nil {
		return err
	}

	fmt.Println("Logged out, local data cleared.")
	return nil
}
