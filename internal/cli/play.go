package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"trivia-service/internal/audio"
	"trivia-service/internal/config"
	"trivia-service/internal/domain"
	"trivia-service/internal/logging"
	"trivia-service/internal/round"
	"trivia-service/internal/tui"
)

// NewPlayCmd plays a game in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var (
		player string
		books  string
		mute   bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			cfg, err := config.LoadOrDefault(*configPath)
			if err != nil {
				return err
			}
			if mute {
				cfg.Audio.Enabled = false
			}
			selected, err := domain.ParseBooks(books)
			if err != nil {
				return err
			}
			return runPlay(ctx, cfg, player, selected)
		},
	}
	cmd.Flags().StringVar(&player, "player", defaultPlayer(), "player id used for the score history")
	cmd.Flags().StringVar(&books, "books", "", "comma separated books to draw questions from (default all)")
	cmd.Flags().BoolVar(&mute, "mute", false, "disable sound")
	return cmd
}

func runPlay(ctx context.Context, cfg config.Config, player string, books []int) error {
	logFile, err := os.OpenFile(filepath.Join(os.TempDir(), "trivia-play.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := logging.NewWithWriter(logFile, cfg.Log.Level, "play")

	d, err := buildDeps(ctx, cfg, logger, false)
	if err != nil {
		return err
	}
	defer d.Close()

	session, err := d.service.StartGame(ctx, player, player, books)
	if err != nil {
		return err
	}

	ctrl := round.New(session, cfg.RoundConfig(), round.WithLogger(logger.WithPrefix("round")))
	sounds := soundPlayer(cfg, logger)
	if p, ok := sounds.(*audio.Player); ok {
		defer p.Close()
	}
	dispatcher := audio.NewDispatcher(sounds, audio.TerminalBell{W: os.Stderr}, logger)

	ctrl.Start(session.CurrentQuestion())
	err = tui.Run(ctx, ctrl, session, dispatcher)
	if endErr := ctrl.End(context.WithoutCancel(ctx)); endErr != nil && err == nil {
		err = endErr
	}
	if finishErr := d.service.Finish(context.WithoutCancel(ctx), session.ID()); finishErr != nil && err == nil {
		err = finishErr
	}
	return err
}

// soundPlayer opens the speaker when audio is enabled. A missing audio device
// downgrades to silent play.
func soundPlayer(cfg config.Config, logger *log.Logger) audio.SoundPlayer {
	if !cfg.Audio.Enabled {
		return nil
	}
	out, err := audio.NewSpeakerOutput()
	if err != nil {
		logger.Warn("audio unavailable, playing silently", "err", err)
		return nil
	}
	return audio.NewPlayer(out, cfg.Audio.Assets, cfg.Audio.Volume, logger)
}

func defaultPlayer() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "player"
}
