package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/niradar/duplicate-files-in-folders/internal/config"
	"github.com/niradar/duplicate-files-in-folders/internal/corerr"
	"github.com/niradar/duplicate-files-in-folders/internal/logging"
	"github.com/niradar/duplicate-files-in-folders/internal/orchestrator"
)

// flags mirrors the §6 CLI surface, plus --verbose and --csv-output; Args validates and
// converts it into a config.Options, matching the teacher's pattern of a
// per-command settings struct built in Args and consumed in Run
// (cmd_find.go's FindCommand).
type flags struct {
	scanDir      string
	referenceDir string
	moveTo       string

	run bool

	ignoreDiff string
	copyToAll  bool

	whitelistExt string
	blacklistExt string

	minSize string
	maxSize string

	keepEmptyFolders bool
	fullHash         bool
	keepStructure    bool

	action string

	clearCache bool
	verbose    bool
	csvOutput  string
}

func newRootCommand() *cobra.Command {
	f := &flags{}
	var opts config.Options

	cmd := &cobra.Command{
		Use:   "dupfiles",
		Short: "Find and quarantine scan-side duplicates of a reference directory",
		Args: func(cmd *cobra.Command, args []string) error {
			built, err := buildOptions(f)
			if err != nil {
				return err
			}
			opts = built
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			level := logging.LevelInfo
			if f.verbose {
				level = logging.LevelVerbose
			}
			log := logging.New(level)

			cacheDir := filepath.Join(opts.MoveTo, ".dupfiles-cache")

			summary, err := orchestrator.Run(opts, log, cacheDir)
			if err != nil {
				return err
			}

			fmt.Printf("groups: %d, scanned: %d (%s), reference: %d (%s), moved: %d, created: %d, empty dirs swept: %d\n",
				summary.GroupCount, summary.ScanSeen, summary.HumanBytesScanned(),
				summary.ReferenceSeen, summary.HumanBytesReference(),
				summary.FilesMoved, summary.FilesCreated, summary.EmptyDirsSwept)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&f.scanDir, "scan-dir", "", "directory to scan for duplicates (required)")
	cmd.Flags().StringVar(&f.referenceDir, "reference-dir", "", "read-only directory to compare against (required)")
	cmd.Flags().StringVar(&f.moveTo, "move-to", "", "quarantine directory for scan-side duplicates (required)")
	cmd.Flags().BoolVar(&f.run, "run", false, "actually perform the move/copy; omit for dry-run")
	cmd.Flags().StringVar(&f.ignoreDiff, "ignore-diff", "mdate", `comma-separated subset of {mdate, filename, none}`)
	cmd.Flags().BoolVar(&f.copyToAll, "copy-to-all", false, "copy the scan file to every unmatched reference duplicate")
	cmd.Flags().StringVar(&f.whitelistExt, "whitelist-ext", "", "comma-separated extensions to include (mutually exclusive with blacklist)")
	cmd.Flags().StringVar(&f.blacklistExt, "blacklist-ext", "", "comma-separated extensions to exclude (mutually exclusive with whitelist)")
	cmd.Flags().StringVar(&f.minSize, "min-size", "", "minimum file size, e.g. 10KB")
	cmd.Flags().StringVar(&f.maxSize, "max-size", "", "maximum file size, e.g. 2GB")
	cmd.Flags().BoolVar(&f.keepEmptyFolders, "keep-empty-folders", false, "do not sweep empty scan directories")
	cmd.Flags().BoolVar(&f.fullHash, "full-hash", false, "hash entire file contents instead of the first 2 MiB")
	cmd.Flags().BoolVar(&f.keepStructure, "keep-structure", false, "mirror scan-tree layout under move_to instead of reference-tree layout")
	cmd.Flags().StringVar(&f.action, "action", string(config.ActionMoveDuplicates), "move_duplicates or create_csv")
	cmd.Flags().BoolVar(&f.clearCache, "clear-cache", false, "discard the persistent hash cache before running")
	cmd.Flags().BoolVar(&f.verbose, "verbose", false, "print debug-level progress")
	cmd.Flags().StringVar(&f.csvOutput, "csv-output", "", "destination CSV file for action=create_csv (default move_to/duplicates.csv)")

	return cmd
}

func buildOptions(f *flags) (config.Options, error) {
	if f.scanDir == "" || f.referenceDir == "" || f.moveTo == "" {
		return config.Options{}, corerr.New(corerr.KindConfigError, "", "scan-dir, reference-dir and move-to are all required", nil)
	}

	ignore, err := config.ParseIgnoreDiff(f.ignoreDiff)
	if err != nil {
		return config.Options{}, err
	}

	minSize, err := config.ParseSize(f.minSize)
	if err != nil {
		return config.Options{}, err
	}
	maxSize, err := config.ParseSize(f.maxSize)
	if err != nil {
		return config.Options{}, err
	}

	whitelist := config.ParseExtSet(f.whitelistExt)
	blacklist := config.ParseExtSet(f.blacklistExt)

	opts := config.Options{
		ScanDir:          f.scanDir,
		ReferenceDir:     f.referenceDir,
		MoveTo:           f.moveTo,
		Run:              f.run,
		Ignore:           ignore,
		CopyToAll:        f.copyToAll,
		WhitelistExt:     whitelist,
		BlacklistExt:     blacklist,
		MinSize:          minSize,
		MaxSize:          maxSize,
		KeepEmptyFolders: f.keepEmptyFolders,
		FullHash:         f.fullHash,
		KeepStructure:    f.keepStructure,
		Action:           config.Action(f.action),
		ClearCache:       f.clearCache,
		CSVOutput:        f.csvOutput,
	}

	if err := opts.Validate(); err != nil {
		return config.Options{}, err
	}
	return opts, nil
}

// exitCodeFor maps an error to one of the three exit codes in §6:
// 0 success, 1 unrecoverable runtime error, 2 configuration error.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if corerr.Is(err, corerr.KindConfigError) {
		return 2
	}
	return 1
}
