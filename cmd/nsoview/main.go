// Package main provides the nsoview command-line tool. It walks the Nintendo
// account authorization flow to obtain API tokens and prints the account's
// game library with play time.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/joho/godotenv"
	"github.com/nsoview/nsoview/internal/api/game"
	"github.com/nsoview/nsoview/internal/auth/nintendo"
	"github.com/nsoview/nsoview/internal/browser"
	"github.com/nsoview/nsoview/internal/buildinfo"
	"github.com/nsoview/nsoview/internal/config"
	"github.com/nsoview/nsoview/internal/logging"
	log "github.com/sirupsen/logrus"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// init initializes the shared logger setup.
func init() {
	logging.SetupBaseLogger()
	buildinfo.Version = Version
	buildinfo.Commit = Commit
	buildinfo.BuildDate = BuildDate
}

// redirectPromptAttempts bounds how often a malformed pasted redirect URL is
// re-prompted before the run gives up.
const redirectPromptAttempts = 3

func main() {
	fmt.Printf("nsoview Version: %s, Commit: %s, BuiltAt: %s\n", buildinfo.Version, buildinfo.Commit, buildinfo.BuildDate)

	var (
		login      bool
		family     string
		device     string
		top        int
		noBrowser  bool
		debug      bool
		configPath string
	)

	flag.BoolVar(&login, "login", false, "Log in to a Nintendo account and store the session token")
	flag.StringVar(&family, "family", "", "Account family: game-server or my-account")
	flag.StringVar(&device, "device", "", "Device filter for the game list: switch, 3ds or all")
	flag.IntVar(&top, "top", 0, "Show only the N most-played titles")
	flag.BoolVar(&noBrowser, "no-browser", false, "Don't open the browser automatically for login")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.StringVar(&configPath, "config", "config.yaml", "Configure file path")
	flag.Parse()

	// .env is optional; environment variables win over file values either way.
	if err := godotenv.Load(); err == nil {
		log.Debug("loaded environment from .env")
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if family != "" {
		cfg.AccountFamily = family
	}
	if device != "" {
		cfg.GameList.Device = device
	}
	if top > 0 {
		cfg.GameList.Top = top
	}
	if debug {
		cfg.Debug = true
	}
	if err = logging.ConfigureLogOutput(cfg); err != nil {
		log.Fatalf("failed to configure logging: %v", err)
	}

	accountFamily, err := nintendo.ParseAccountFamily(cfg.AccountFamily)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	if login {
		err = runLogin(ctx, cfg, accountFamily, noBrowser)
	} else {
		err = runGames(ctx, cfg, accountFamily)
	}
	if err != nil {
		log.Errorf("run failed: %v", err)
		fmt.Fprintln(os.Stderr, nintendo.GetUserFriendlyMessage(err))
		os.Exit(1)
	}
}

// runLogin walks the interactive login: authorization URL, pasted redirect,
// token exchange pipeline, session-token persistence.
func runLogin(ctx context.Context, cfg *config.Config, family nintendo.AccountFamily, noBrowser bool) error {
	authParams, err := nintendo.GenerateAuthParams()
	if err != nil {
		return err
	}

	authURL, state, err := nintendo.BuildAuthorizationURL(family, authParams)
	if err != nil {
		return err
	}

	fmt.Println("Open the following URL, log in, then right-click \"Select this account\" and copy the link address:")
	fmt.Printf("\n%s\n\n", authURL)
	if errClip := clipboard.WriteAll(authURL); errClip == nil {
		fmt.Println("(The URL has been copied to your clipboard.)")
	} else {
		log.Debugf("clipboard copy failed: %v", errClip)
	}
	if !noBrowser && browser.IsAvailable() {
		if errOpen := browser.OpenURL(authURL); errOpen != nil {
			log.Warnf("failed to open browser: %v", errOpen)
		}
	}

	redirect, err := promptRedirect(state)
	if err != nil {
		return err
	}

	auth, err := nintendo.NewNintendoAuth(family, cfg)
	if err != nil {
		return err
	}
	result, err := auth.Login(ctx, redirect, authParams)
	if err != nil {
		return err
	}

	authDir, err := config.ResolveAuthDir(cfg.AuthDir)
	if err != nil {
		return err
	}
	storage := nintendo.NewSessionTokenStorage(family, result.SessionToken)
	if err = storage.SaveTokenToFile(filepath.Join(authDir, nintendo.TokenFileName(family))); err != nil {
		return err
	}

	fmt.Printf("Logged in as a %s/%s account.\n", result.Profile.Country, result.Profile.Language)
	fmt.Println("Login successful. Run nsoview without -login to show your play time.")
	return nil
}

// promptRedirect asks the user to paste the redirect URL and parses it,
// re-prompting a bounded number of times on malformed input.
func promptRedirect(state string) (*nintendo.RedirectResult, error) {
	reader := bufio.NewReader(os.Stdin)
	var lastErr error
	for attempt := 0; attempt < redirectPromptAttempts; attempt++ {
		fmt.Print("Paste the redirect link (npf...://auth#...): ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}

		redirect, errParse := nintendo.ParseRedirect(strings.TrimSpace(line))
		if errParse != nil {
			lastErr = errParse
			fmt.Println(nintendo.GetUserFriendlyMessage(errParse))
			continue
		}
		if redirect.State != state {
			log.Warnf("redirect state %q does not match the state sent in the authorization URL", redirect.State)
		}
		return redirect, nil
	}
	return nil, lastErr
}

// runGames resolves a cached session token and prints the game library for
// the configured account family.
func runGames(ctx context.Context, cfg *config.Config, family nintendo.AccountFamily) error {
	sessionToken, err := resolveSessionToken(cfg, family)
	if err != nil {
		return err
	}

	auth, err := nintendo.NewNintendoAuth(family, cfg)
	if err != nil {
		return err
	}
	client, err := game.NewClient(cfg)
	if err != nil {
		return err
	}

	if family == nintendo.FamilyGameServer {
		// The game-server family needs the full chain down to the web-API
		// access token before the znc listing accepts the call.
		result, errLogin := auth.LoginWithSessionToken(ctx, sessionToken)
		if errLogin != nil {
			return errLogin
		}
		services, errList := client.ListWebServices(ctx, result.AccessToken)
		if errList != nil {
			return errList
		}
		fmt.Println(renderWebServiceTable(services))
		return nil
	}

	// The play-history endpoint accepts the service ID token directly.
	serviceToken, err := auth.ExchangeSessionToken(ctx, sessionToken)
	if err != nil {
		return err
	}
	payload, err := client.FetchPlayHistories(ctx, serviceToken.IDToken)
	if err != nil {
		return err
	}

	keep, err := game.DeviceFilterFromName(cfg.GameList.Device)
	if err != nil {
		return err
	}
	entries := game.SortByPlayTime(game.ParseGameList(payload, keep), cfg.GameList.Top)
	if len(entries) == 0 {
		fmt.Println("No played titles found.")
		return nil
	}
	fmt.Println(renderGameTable(entries))
	return nil
}

// resolveSessionToken prefers the SESSION_TOKEN environment variable and
// falls back to the stored auth file for the family.
func resolveSessionToken(cfg *config.Config, family nintendo.AccountFamily) (string, error) {
	if token := strings.TrimSpace(os.Getenv("SESSION_TOKEN")); token != "" {
		log.Debug("using session token from environment")
		return token, nil
	}

	authDir, err := config.ResolveAuthDir(cfg.AuthDir)
	if err != nil {
		return "", err
	}
	storage, err := nintendo.LoadTokenFromFile(filepath.Join(authDir, nintendo.TokenFileName(family)))
	if err != nil {
		return "", fmt.Errorf("no session token available (set SESSION_TOKEN or run with -login): %w", err)
	}
	return storage.SessionToken, nil
}
