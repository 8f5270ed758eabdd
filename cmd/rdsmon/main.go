// rdsmon is a terminal dashboard for a live or recorded RDS group
// stream: it shows PI/PTY/TP/TA/MS/ECC, the AF list, the station name
// and both RadioText buffers, updating as groups are decoded.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jroimartin/gocui"
	. "github.com/logrusorgru/aurora"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/pflag"

	"fmrds/asciihex"
	"fmrds/rds"
	"fmrds/serialsource"
)

type Context struct {
	parser    *rds.Parser
	updatedAt time.Time
}

func newContext() *Context {
	return &Context{parser: rds.New()}
}

func (ctx *Context) touch() {
	ctx.updatedAt = time.Now()
}

func ternaryLabel(v int8) string {
	switch v {
	case 0:
		return "no"
	case 1:
		return "yes"
	default:
		return "--"
	}
}

// renderColored colors each character of content by its corresponding
// StringErrorLevel: green for a clean character, yellow for a
// corrected one, red for a heavily corrected or uncorrectable one. It
// right-pads the row to width with plain, uncolored spaces.
func renderColored(content string, errs []rds.StringErrorLevel, width int) string {
	var b strings.Builder
	for i := 0; i < len(content); i++ {
		cell := string(content[i])
		switch {
		case errs[i] == rds.StringErrorNone:
			b.WriteString(Green(cell).String())
		case errs[i] >= rds.StringErrorXLarge:
			b.WriteString(Red(cell).String())
		default:
			b.WriteString(Yellow(cell).String())
		}
	}
	b.WriteString(strings.Repeat(" ", width-runewidth.StringWidth(content)))
	return b.String()
}

func (ctx *Context) update(g *gocui.Gui) error {
	status, err := g.View("status")
	if err != nil {
		return err
	}
	status.Clear()

	pi := "----"
	if ctx.parser.PI() >= 0 {
		pi = fmt.Sprintf("%04X", ctx.parser.PI())
	}
	pty := "--"
	if ctx.parser.PTY() >= 0 {
		pty = fmt.Sprintf("%02d", ctx.parser.PTY())
	}
	ecc := "--"
	if ctx.parser.ECC() >= 0 {
		ecc = fmt.Sprintf("%02X", ctx.parser.ECC())
	}

	fmt.Fprintf(status, " PI: %s   PTY: %s   ECC: %s   TP: %s   TA: %s   MS: %s\n",
		Bold(Green(pi)), Yellow(pty), Yellow(ecc),
		ternaryLabel(ctx.parser.TP()), ternaryLabel(ctx.parser.TA()), ternaryLabel(ctx.parser.MS()))

	last := "never"
	if !ctx.updatedAt.IsZero() {
		last = ctx.updatedAt.Format("15:04:05")
	}
	fmt.Fprintf(status, " last group: %s\n", Faint(last))

	ps, err := g.View("ps")
	if err != nil {
		return err
	}
	ps.Clear()
	fmt.Fprintf(ps, " %s\n", renderColored(ctx.parser.PS().Content(), ctx.parser.PS().Errors(), ctx.parser.PS().Length()))

	rt, err := g.View("rt")
	if err != nil {
		return err
	}
	rt.Clear()
	fmt.Fprintf(rt, " A: %s\n", renderColored(ctx.parser.RT(rds.RTFlagA).Content(), ctx.parser.RT(rds.RTFlagA).Errors(), ctx.parser.RT(rds.RTFlagA).Length()))
	fmt.Fprintf(rt, " B: %s\n", renderColored(ctx.parser.RT(rds.RTFlagB).Content(), ctx.parser.RT(rds.RTFlagB).Errors(), ctx.parser.RT(rds.RTFlagB).Length()))

	af, err := g.View("af")
	if err != nil {
		return err
	}
	af.Clear()
	bitmap := ctx.parser.AF()
	fmt.Fprint(af, " ")
	count := 0
	for code := 1; code <= 204; code++ {
		byteIdx := code / 8
		mask := byte(0x80) >> (code % 8)
		if bitmap[byteIdx]&mask != 0 {
			fmt.Fprintf(af, "%.1f ", 87.5+float64(code)*0.1)
			count++
		}
	}
	if count == 0 {
		fmt.Fprint(af, Faint("none yet"))
	}
	fmt.Fprintln(af)

	return nil
}

func layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	if v, err := g.SetView("status", 0, 0, maxX-1, 3); err == nil || err == gocui.ErrUnknownView {
		v.Title = " STATION "
	}
	if v, err := g.SetView("ps", 0, 4, maxX-1, 6); err == nil || err == gocui.ErrUnknownView {
		v.Title = " PS "
	}
	if v, err := g.SetView("rt", 0, 7, maxX-1, 10); err == nil || err == gocui.ErrUnknownView {
		v.Title = " RADIOTEXT "
	}
	if v, err := g.SetView("af", 0, 11, maxX-1, maxY-1); err == nil || err == gocui.ErrUnknownView {
		v.Title = " ALTERNATIVE FREQUENCIES (MHz) "
	}
	return nil
}

func quit(*gocui.Gui, *gocui.View) error {
	return gocui.ErrQuit
}

func main() {
	configPath := pflag.StringP("config", "c", "", "YAML config file")
	file := pflag.StringP("file", "f", "", "read hex lines from this file instead of a serial port")
	serialPort := pflag.String("serial-port", "", "serial device to read hex lines from")
	serialBaud := pflag.Int("serial-baud", 9600, "serial baud rate")
	pflag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	ctx := newContext()

	if *configPath != "" {
		cfg, err := LoadConfig(*configPath)
		if err != nil {
			logger.Fatal("loading config", "err", err)
		}
		if err := cfg.Apply(ctx.parser); err != nil {
			logger.Fatal("applying config", "err", err)
		}
		if *file == "" {
			*file = cfg.Input.File
		}
		if *serialPort == "" {
			*serialPort = cfg.Input.Serial.Port
		}
		if cfg.Input.Serial.Baud != 0 && !pflag.CommandLine.Changed("serial-baud") {
			*serialBaud = cfg.Input.Serial.Baud
		}
	}

	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		logger.Fatal("initializing terminal", "err", err)
	}
	defer g.Close()

	g.SetManagerFunc(layout)
	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		logger.Fatal("binding keys", "err", err)
	}

	ctx.parser.OnPI(func(uint16) { ctx.touch() })
	ctx.parser.OnPTY(func(uint8) { ctx.touch() })
	ctx.parser.OnTP(func(bool) { ctx.touch() })
	ctx.parser.OnTA(func(bool) { ctx.touch() })
	ctx.parser.OnMS(func(bool) { ctx.touch() })
	ctx.parser.OnECC(func(uint8) { ctx.touch() })
	ctx.parser.OnAF(func(uint8) { ctx.touch() })
	ctx.parser.OnPS(func(string, []rds.StringErrorLevel) { ctx.touch() })
	ctx.parser.OnRT(func(string, []rds.StringErrorLevel, rds.RTFlag) { ctx.touch() })

	stop, err := startSource(*file, *serialPort, *serialBaud, ctx, g, logger)
	if err != nil {
		logger.Fatal("starting input source", "err", err)
	}
	defer stop()

	if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
		logger.Fatal("ui loop", "err", err)
	}
}

// startSource opens whichever input the flags/config selected and
// begins feeding decoded groups to ctx.parser in the background,
// nudging the gocui render loop after every group.
func startSource(file, serialPort string, baud int, ctx *Context, g *gocui.Gui, logger *log.Logger) (func(), error) {
	limiter := asciihex.NewWarnLimiter()
	onScanMalformed := func(lineNum int, raw string) {
		if limiter.Allow(raw) {
			logger.Warn("malformed line", "line", lineNum, "raw", raw)
		}
	}
	onSerialMalformed := func(raw string) {
		if limiter.Allow(raw) {
			logger.Warn("malformed line", "raw", raw)
		}
	}

	switch {
	case file != "":
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", file, err)
		}
		go func() {
			defer f.Close()
			err := asciihex.ScanLines(f, func(line asciihex.Line) {
				ctx.parser.Parse(line.Group, line.Errors)
				g.Update(ctx.update)
			}, onScanMalformed)
			if err != nil {
				logger.Error("reading file", "err", err)
			}
		}()
		return func() {}, nil

	case serialPort != "":
		src := serialsource.New(serialPort, baud)
		if err := src.Open(); err != nil {
			return nil, err
		}
		go func() {
			err := src.Run(ctx.parser, onSerialMalformed)
			if err != nil {
				logger.Error("reading serial port", "err", err)
			}
		}()
		return func() { src.Close() }, nil

	default:
		go func() {
			err := asciihex.ScanLines(os.Stdin, func(line asciihex.Line) {
				ctx.parser.Parse(line.Group, line.Errors)
				g.Update(ctx.update)
			}, onScanMalformed)
			if err != nil {
				logger.Error("reading stdin", "err", err)
			}
		}()
		return func() {}, nil
	}
}
