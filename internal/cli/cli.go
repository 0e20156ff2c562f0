package cli

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mpdshuffle/internal/config"
	"mpdshuffle/internal/display"
	"mpdshuffle/internal/logging"
	"mpdshuffle/internal/mpdqueue"
	"mpdshuffle/internal/musicroot"
	"mpdshuffle/internal/playlist"
	"mpdshuffle/internal/processor"
	"mpdshuffle/internal/scanner"
)

var (
	configPath string
	network    string
	address    string
	root       string
	noDecode   bool
	verbose    bool

	noShuffle bool
	shuffle   bool
	showTags  bool
	threads   int
)

// dialQueue is replaced in tests.
var dialQueue = mpdqueue.Dial

var rootCmd = &cobra.Command{
	Use:   "mpdshuffle",
	Short: "Queue music in MPD in random order",
	Long: `Usage:
  mpdshuffle <command> [path] [options]

Commands:
  add-shuffled <path>   Resolve a track, directory or playlist and append it to the MPD queue in random order
  list                  Print the file of every entry in the MPD queue
  resolve <path>        Print the tracks a path resolves to without touching MPD

Relative paths, including playlist entries, are resolved against --root,
then $MPD_ROOT, then music_root from the config file, then the user's
music directory.

MPD only accepts absolute paths from unix socket clients. Over TCP, set
strip_root = true in the [mpd] config section to send paths relative to the
music root.

Options:
  -c, --config      Config file (default: ~/.config/mpdshuffle/config.toml, ./mpdshuffle.toml)
      --network     MPD network, "tcp" or "unix"
  -a, --addr        MPD address (default: [::1]:6600)
  -r, --root        Music root, overrides $MPD_ROOT and the config file
      --no-decode   Read playlist entries literally instead of percent-decoding them
  -v, --verbose     Log every step to stderr

Examples:
  mpdshuffle add-shuffled "Artist/Album"
  mpdshuffle add-shuffled ~/playlists/road-trip.m3u8
  mpdshuffle resolve ./music --tags -n 8
  mpdshuffle list`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var addShuffledCmd = &cobra.Command{
	Use:   "add-shuffled [path]",
	Short: "Append the tracks of a path to the MPD queue in random order",
	Args:  cobra.ExactArgs(1),
	RunE:  runAddShuffled,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the current MPD queue",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [path]",
	Short: "Print the tracks a path resolves to",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

func init() {
	rootCmd.AddCommand(addShuffledCmd, listCmd, resolveCmd)

	// Custom help template to remove duplicate sections
	rootCmd.SetHelpTemplate(`{{.Long}}
`)
	rootCmd.SetUsageTemplate(`{{.Long}}
`)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Config file")
	flags.StringVar(&network, "network", "", "MPD network (tcp or unix)")
	flags.StringVarP(&address, "addr", "a", "", "MPD address")
	flags.StringVarP(&root, "root", "r", "", "Music root for relative paths")
	flags.BoolVar(&noDecode, "no-decode", false, "Do not percent-decode playlist entries")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	addShuffledCmd.Flags().BoolVar(&noShuffle, "no-shuffle", false, "Keep resolution order")

	resolveCmd.Flags().BoolVarP(&shuffle, "shuffle", "s", false, "Shuffle the output")
	resolveCmd.Flags().BoolVarP(&showTags, "tags", "t", false, "Read and print each track's tags")
	resolveCmd.Flags().IntVarP(&threads, "threads", "n", 5, "Number of worker threads for --tags")
}

func Execute() error {
	return rootCmd.Execute()
}

// env bundles what every command needs.
type env struct {
	cfg      *config.Config
	log      *zap.Logger
	resolver *musicroot.Resolver
}

func setup(cmd *cobra.Command) (*env, error) {
	log := logging.New(cmd.ErrOrStderr(), verbose)

	if err := config.LoadEnvFile(".env"); err != nil {
		return nil, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if network != "" {
		cfg.MPD.Network = network
	}
	if address != "" {
		cfg.MPD.Address = address
	}

	resolver := musicroot.FromEnv(cfg.MusicRoot)
	if root != "" {
		resolver = musicroot.New(root)
	}
	log.Debug("configuration loaded",
		zap.String("root", resolver.Root()),
		zap.String("mpd", cfg.MPD.Network+"://"+cfg.MPD.Address),
		zap.Bool("percent_decode", cfg.Decode() && !noDecode))

	return &env{cfg: cfg, log: log, resolver: resolver}, nil
}

func (e *env) scanner() *scanner.Scanner {
	return scanner.New(e.resolver, scanner.Options{
		Decoder: playlist.Decoder{Percent: e.cfg.Decode() && !noDecode},
		Logger:  e.log,
	})
}

func (e *env) dial() (*mpdqueue.Queue, error) {
	opts := mpdqueue.Options{Logger: e.log}
	if e.cfg.MPD.StripRoot {
		base, err := e.resolver.Base()
		if err != nil {
			return nil, err
		}
		opts.StripRoot = base
	}
	return dialQueue(mpdqueue.Config{
		Network:  e.cfg.MPD.Network,
		Address:  e.cfg.MPD.Address,
		Password: e.cfg.MPD.Password,
	}, opts)
}

func runAddShuffled(cmd *cobra.Command, args []string) error {
	start := time.Now()
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	tracks, err := e.scanner().Tracks(args[0])
	if err != nil {
		return err
	}
	if !noShuffle {
		scanner.Shuffle(tracks, nil)
	}

	q, err := e.dial()
	if err != nil {
		return err
	}
	defer q.Close()

	queued, err := q.Submit(tracks)
	if err != nil {
		return err
	}

	if verbose {
		display.PrintSummary(cmd.ErrOrStderr(), display.Summary{
			Resolved: len(tracks),
			Queued:   queued,
			Elapsed:  time.Since(start),
		})
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	q, err := e.dial()
	if err != nil {
		return err
	}
	defer q.Close()

	files, err := q.List()
	if err != nil {
		return err
	}
	display.PrintQueue(cmd.OutOrStdout(), files)
	return nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	tracks, err := e.scanner().Tracks(args[0])
	if err != nil {
		return err
	}
	if shuffle {
		scanner.Shuffle(tracks, nil)
	}

	if !showTags {
		display.PrintTracks(cmd.OutOrStdout(), tracks)
		return nil
	}

	proc := processor.New(processor.ProcessOptions{
		Threads: threads,
		Logger:  e.log,
	})
	display.PrintTagged(cmd.OutOrStdout(), proc.ProcessTracks(tracks))
	display.PrintStatistics(cmd.OutOrStdout(), proc.Stats())
	return nil
}
