// datachat TUI - A terminal client for the datachat conversational
// data-analysis backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/morganforge/datachat-tui/internal/api"
	"github.com/morganforge/datachat-tui/internal/config"
	"github.com/morganforge/datachat-tui/internal/logging"
	"github.com/morganforge/datachat-tui/internal/session"
	"github.com/morganforge/datachat-tui/internal/ui/chat"
	"github.com/morganforge/datachat-tui/internal/ui/components"
	"github.com/morganforge/datachat-tui/internal/ui/login"
	"github.com/morganforge/datachat-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.2.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	apiURL := flag.String("api", "", "backend base URL (overrides config)")
	configPath := flag.String("config", "", "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("datachat %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "datachat requires an interactive terminal")
		os.Exit(1)
	}

	if err := run(*apiURL, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run wires configuration, logging, session, and the API client, then
// hands control to Bubble Tea.
func run(apiURL, configPath string) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	dir, err := config.Dir()
	if err != nil {
		return err
	}
	logger, closeLogs, err := logging.Setup(logging.Options{
		Dir:        filepath.Join(dir, "logs"),
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	if err != nil {
		return err
	}
	defer closeLogs()

	store, err := session.NewStore()
	if err != nil {
		return err
	}
	sess, err := store.Load()
	if err != nil {
		logger.Warn("failed to load session", zap.Error(err))
	}

	client := api.NewClient(cfg.API.BaseURL).
		WithTimeout(time.Duration(cfg.API.TimeoutSecs) * time.Second).
		WithLogger(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := newApp(ctx, cancel, client, store, cfg, sess, logger)

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	logger.Info("starting",
		zap.String("version", Version),
		zap.String("base_url", client.BaseURL()))

	_, err = tea.NewProgram(app, opts...).Run()
	return err
}

// =============================================================================
// ROOT MODEL
// =============================================================================

// screen identifies which view the root model is delegating to.
type screen int

const (
	screenLogin screen = iota
	screenChat
)

// app is the root Bubble Tea model. It owns the screen switch: login until
// a session exists, chat until logout.
type app struct {
	screen screen
	login  login.Model
	chat   chat.Model

	ctx    context.Context
	cancel context.CancelFunc

	client *api.Client
	store  *session.Store
	cfg    *config.Config
	theme  *styles.Theme
	logger *zap.Logger

	width  int
	height int
}

// newApp builds the root model, skipping the login screen when a valid
// persisted session exists.
func newApp(ctx context.Context, cancel context.CancelFunc, client *api.Client, store *session.Store, cfg *config.Config, sess session.Session, logger *zap.Logger) app {
	theme := styles.NewTheme()

	a := app{
		ctx:    ctx,
		cancel: cancel,
		client: client,
		store:  store,
		cfg:    cfg,
		theme:  theme,
		logger: logger,
	}

	if sess.Valid() {
		a.screen = screenChat
		client.WithToken(sess.Token)
		a.chat = chat.New(ctx, client, sess, theme, logger, cfg.UI.Markdown)
	} else {
		a.screen = screenLogin
		a.login = login.New(ctx, client, store, theme, logger)
	}

	return a
}

// Init implements tea.Model.
func (a app) Init() tea.Cmd {
	if a.screen == screenChat {
		return a.chat.Init()
	}
	return a.login.Init()
}

// Update implements tea.Model.
func (a app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case tea.KeyMsg:
		// The login screen has no other way out.
		if a.screen == screenLogin && (msg.String() == "ctrl+c" || msg.String() == "ctrl+q") {
			return a, tea.Quit
		}

	case login.SessionCreatedMsg:
		return a.enterChat(msg.Session)

	case chat.LogoutMsg:
		return a.logout()
	}

	var cmd tea.Cmd
	switch a.screen {
	case screenLogin:
		a.login, cmd = a.login.Update(msg)
	case screenChat:
		a.chat, cmd = a.chat.Update(msg)
	}
	return a, cmd
}

// View implements tea.Model.
func (a app) View() string {
	if a.screen == screenLogin {
		return a.login.View()
	}
	return a.chat.View()
}

// enterChat switches to the chat screen for a fresh session.
func (a app) enterChat(sess session.Session) (tea.Model, tea.Cmd) {
	a.client.WithToken(sess.Token)
	a.screen = screenChat
	a.chat = chat.New(a.ctx, a.client, sess, a.theme, a.logger, a.cfg.UI.Markdown)

	var toastCmd tea.Cmd
	a.chat, toastCmd = a.chat.Notify(components.NewSuccessToast("Signed in."))

	cmds := []tea.Cmd{a.chat.Init(), toastCmd}
	if a.width > 0 {
		width, height := a.width, a.height
		cmds = append(cmds, func() tea.Msg {
			return tea.WindowSizeMsg{Width: width, Height: height}
		})
	}
	return a, tea.Batch(cmds...)
}

// logout clears the persisted session, abandons in-flight requests, and
// returns to the login screen.
func (a app) logout() (tea.Model, tea.Cmd) {
	if err := a.store.Clear(); err != nil {
		a.logger.Warn("failed to clear session", zap.Error(err))
	}
	a.client.WithToken("")

	// Cancel outstanding requests from the old session, then rebuild the
	// context for the next one.
	a.cancel()
	a.ctx, a.cancel = context.WithCancel(context.Background())

	a.logger.Info("logged out")
	a.screen = screenLogin
	a.login = login.New(a.ctx, a.client, a.store, a.theme, a.logger)

	cmds := []tea.Cmd{a.login.Init()}
	if a.width > 0 {
		width, height := a.width, a.height
		cmds = append(cmds, func() tea.Msg {
			return tea.WindowSizeMsg{Width: width, Height: height}
		})
	}
	return a, tea.Batch(cmds...)
}
