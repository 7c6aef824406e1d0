package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/chainsafe/thegarii/firehose"
	"github.com/chainsafe/thegarii/poller"
)

// cursorFileName inside the data directory, unless PTR_FILE overrides the
// full path.
const cursorFileName = "latest_block_processed.txt"

var consoleCommand = &cli.Command{
	Name:  "console",
	Usage: "Poll blocks and write the firehose stream to stdout",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "start",
			Aliases: []string{"s"},
			Usage:   "height to start polling from, or \"live\" for head minus confirms",
		},
		&cli.Uint64Flag{
			Name:    "end",
			Aliases: []string{"e"},
			Usage:   "height to stop polling at, inclusive",
		},
		&cli.BoolFlag{
			Name:    "forever",
			Aliases: []string{"f"},
			Usage:   "restart polling on any non-terminal error",
		},
		&cli.StringFlag{
			Name:    "data-directory",
			Aliases: []string{"d"},
			Value:   "thegarii",
			Usage:   "directory holding the cursor file",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "omit the block payload from FIRE BLOCK lines",
		},
	},
	Action: runConsole,
}

func runConsole(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	cursorPath := cfg.PtrPath
	if cursorPath == "" {
		dataDir := c.String("data-directory")
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return fmt.Errorf("unable to create data directory %s: %w", dataDir, err)
		}
		cursorPath = filepath.Join(dataDir, cursorFileName)
	}

	var end *uint64
	if c.IsSet("end") {
		v := c.Uint64("end")
		end = &v
	}

	emitter := firehose.New(&firehose.Config{
		Confirms: cfg.Confirms,
		Quiet:    c.Bool("quiet"),
	})
	p, err := poller.New(cfg, emitter, poller.Options{
		CursorPath: cursorPath,
		Start:      c.String("start"),
		End:        end,
		Forever:    c.Bool("forever"),
	})
	if err != nil {
		return err
	}
	return p.Start(c.Context)
}
