package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/savegames/internal/cli"
	"github.com/theirongolddev/savegames/internal/daemon"
	"github.com/theirongolddev/savegames/internal/watch"

	"github.com/spf13/cobra"
)

var (
	flagWatchInterval     time.Duration
	flagWatchDebounce     time.Duration
	flagWatchEventsBuffer int
	flagWatchNoNotify     bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print save folder change events as JSON lines",
	Long: "Rescans the active save folder whenever it changes and prints a\n" +
		"snapshot event, then one saves_delta event per change, until interrupted.",
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&flagWatchInterval, "interval", 0, "Also rescan on this interval (0 disables)")
	watchCmd.Flags().DurationVar(&flagWatchDebounce, "debounce", watch.DefaultDelay, "Quiet period before a change triggers a rescan")
	watchCmd.Flags().IntVar(&flagWatchEventsBuffer, "events-buffer", 200, "Max in-memory events retained")
	watchCmd.Flags().BoolVar(&flagWatchNoNotify, "no-notify", false, "Do not use file system notifications (requires --interval)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(c *cobra.Command, _ []string) error {
	if flagWatchNoNotify && flagWatchInterval <= 0 {
		return fmt.Errorf("--no-notify needs a positive --interval")
	}

	s, err := openSession(c.Context(), true)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.requireSupported(); err != nil {
		return err
	}

	svc := daemon.New(s.host, daemon.Config{
		Interval:     flagWatchInterval,
		Watch:        !flagWatchNoNotify,
		Debounce:     flagWatchDebounce,
		EventsBuffer: flagWatchEventsBuffer,
		Logger:       s.log,
	})
	ctx := c.Context()
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Run(ctx) }()

	past, events, unsubscribe := svc.Replay(0)
	defer unsubscribe()

	s.log.Info("watching save folder", "folder", s.host.SavesPath())
	enc := json.NewEncoder(os.Stdout)
	for _, ev := range past {
		if err := enc.Encode(ev); err != nil {
			return fmt.Errorf("writing event: %w", err)
		}
	}
	for {
		select {
		case ev := <-events:
			if err := enc.Encode(ev); err != nil {
				return fmt.Errorf("writing event: %w", err)
			}
		case err := <-errCh:
			printWatchStatus(svc.Status())
			return err
		}
	}
}

func printWatchStatus(st daemon.Status) {
	fmt.Fprintf(os.Stderr, "  %d scans, %d events since %s; last: %d saves, %s\n",
		st.PollCount, st.EventCount, st.StartedAt.Format(time.Kitchen),
		st.Summary.Count, cli.FormatSize(st.Summary.TotalSize))
	if st.LastError != "" {
		fmt.Fprintln(os.Stderr, cli.RenderError("  last error: "+st.LastError))
	}
}
