package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fieldside/sideline/internal/command"
	"github.com/fieldside/sideline/internal/commandbridge"
	"github.com/fieldside/sideline/internal/config"
	"github.com/fieldside/sideline/internal/exam"
	"github.com/fieldside/sideline/internal/logging"
	"github.com/fieldside/sideline/internal/module"
	"github.com/fieldside/sideline/internal/modules"
	"github.com/fieldside/sideline/internal/orchestrator"
	"github.com/fieldside/sideline/internal/router"
	"github.com/fieldside/sideline/internal/store"
	"github.com/fieldside/sideline/internal/transcript"
	"github.com/fieldside/sideline/internal/tui"
)

func newExamCmd() *cobra.Command {
	var (
		sessionType string
		debug       bool
		noBridge    bool
	)

	cmd := &cobra.Command{
		Use:   "exam",
		Short: "Administer an assessment session",
		Long:  "Starts an interactive assessment session. Modules run in the configured order, commands arrive from the keyboard or the voice bridge, and results are saved when the session ends.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExam(cmd.Context(), exam.SessionType(sessionType), debug, noBridge)
		},
	}

	cmd.Flags().StringVarP(&sessionType, "type", "t", string(exam.SessionTypeFull), "session type: full or emergency")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	cmd.Flags().BoolVar(&noBridge, "no-bridge", false, "disable the command bridge HTTP server")

	return cmd
}

func runExam(ctx context.Context, sessionType exam.SessionType, debug, noBridge bool) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}
	if err := config.InitSidelineDir(cwd); err != nil {
		return fmt.Errorf("initialize sideline directory: %w", err)
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log, err := logging.New(cfg.LogsDir(), debug)
	if err != nil {
		return fmt.Errorf("open logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	order, err := cfg.ModuleOrder(sessionType)
	if err != nil {
		return err
	}
	session, err := exam.NewSession(exam.CreateSessionInput{
		Type:    sessionType,
		Modules: order,
	}, time.Now, uuid.NewString)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.ResultsDBPath())
	if err != nil {
		return fmt.Errorf("open results store: %w", err)
	}
	defer func() { _ = st.Close() }()

	rec, err := transcript.New(cfg.TranscriptsDir(), session.ID)
	if err != nil {
		return fmt.Errorf("open transcript: %w", err)
	}

	registry := module.NewRegistry()
	modules.RegisterBuiltins(registry)

	rt := router.New(log)

	// The display adapter and the orchestrator reference each other; the
	// adapter resolves its submit target lazily, after construction.
	var orch *orchestrator.Orchestrator
	display := tui.NewDisplay(func(ev orchestrator.Event) {
		if orch != nil {
			orch.Submit(ev)
		}
	})

	orch, err = orchestrator.New(session, cfg.Protocol(), rt, registry, display, st,
		orchestrator.WithConfirmTimeout(cfg.ConfirmTimeout()),
		orchestrator.WithRecorder(rec),
		orchestrator.WithLogger(log),
	)
	if err != nil {
		return err
	}

	bridgeCtx, cancelBridge := context.WithCancel(ctx)
	defer cancelBridge()

	settings := commandbridge.SettingsFromConfig(cfg)
	if noBridge {
		settings.Enabled = false
	}
	var bridge *commandbridge.Server
	if settings.Enabled {
		bridge = commandbridge.NewServer(settings,
			commandbridge.WithSink(commandbridge.CommandSinkFunc(func(c command.Command) {
				orch.Submit(orchestrator.CommandEvent{Cmd: c})
			})),
			commandbridge.WithLogger(log),
		)
		if err := bridge.Start(bridgeCtx); err != nil && !errors.Is(err, commandbridge.ErrServerDisabled) {
			return fmt.Errorf("start command bridge: %w", err)
		}
		log.Info("command bridge listening", zap.String("addr", bridge.Addr()))
	}

	program := tea.NewProgram(tui.NewApp(display, orch.Submit), tea.WithAltScreen())
	display.Attach(program)

	loopCtx, cancelLoop := context.WithCancel(ctx)
	defer cancelLoop()

	loopDone := make(chan error, 1)
	go func() {
		loopDone <- orch.Run(loopCtx)
	}()

	_, runErr := program.Run()

	// The TUI has closed; stop the session loop if it is still going and
	// drain it so the final session save completes before teardown.
	cancelLoop()
	loopErr := <-loopDone
	if errors.Is(loopErr, context.Canceled) {
		loopErr = nil
	}

	if bridge != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := bridge.Shutdown(shutdownCtx); err != nil {
			log.Warn("command bridge shutdown", zap.Error(err))
		}
	}

	if runErr != nil {
		return fmt.Errorf("run terminal interface: %w", runErr)
	}
	return loopErr
}
