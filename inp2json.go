// This file is part of inp2json.
//
// inp2json is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// inp2json is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with inp2json.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/6t8k/inp2json/decoder"
	"github.com/6t8k/inp2json/inp"
	"github.com/6t8k/inp2json/logger"
	"github.com/6t8k/inp2json/modalflag"
	"github.com/6t8k/inp2json/performance"
	"github.com/6t8k/inp2json/reference"
	"github.com/6t8k/inp2json/regression"
	"github.com/6t8k/inp2json/statsview"
	"github.com/6t8k/inp2json/version"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/klauspost/compress/gzip"
	"golang.org/x/term"
)

// logEcho records whether log entries are being echoed as they arrive. when
// they are not, the most recent entries accompany any fatal error.
var logEcho bool

// setLogEcho directs new log entries to stderr. stdout is left alone, the
// JSON output may be going there.
func setLogEcho() {
	if logEcho {
		return
	}
	logEcho = true

	if term.IsTerminal(int(os.Stderr.Fd())) {
		logger.SetEcho(logger.NewColorizer(os.Stderr), true)
	} else {
		logger.SetEcho(os.Stderr, true)
	}
}

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.NewMode()
	md.AddSubModes("DECODE", "PORTS", "REFERENCE", "REGRESS", "PERFORMANCE", "VERSION")

	log := md.AddBool("log", false, "echo debugging log to stderr")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		os.Exit(0)
	case modalflag.ParseError:
		fmt.Printf("* %v\n", err)
		os.Exit(10)
	}

	if *log {
		setLogEcho()
	}

	switch md.Mode() {
	case "DECODE":
		err = decode(md)
	case "PORTS":
		err = listPorts(md)
	case "REFERENCE":
		err = convertReference(md)
	case "REGRESS":
		err = regress(md)
	case "PERFORMANCE":
		err = perform(md)
	case "VERSION":
		err = showVersion(md)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md, err)
		if !logEcho {
			logger.Tail(os.Stderr, 10)
		}
		os.Exit(20)
	}
}

// parsePortSpec converts a comma separated list of port indices.
func parsePortSpec(spec string) ([]int, error) {
	if spec == "" {
		return nil, nil
	}

	var ports []int
	for _, v := range strings.Split(spec, ",") {
		p, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("invalid port selection [%s]", spec)
		}
		ports = append(ports, p)
	}
	return ports, nil
}

func decode(md *modalflag.Modes) error {
	md.NewMode()

	refFile := md.AddString("ref", "", "reference port table to resolve control names with")
	portSpec := md.AddString("ports", "", "limit output to the specified ports (eg. 0,2)")
	count := md.AddInt("count", 0, "override the port count in the recording header")
	outFile := md.AddString("o", "", "output file. stdout if not specified")
	indent := md.AddBool("indent", false, "indent the JSON output")
	decompressed := md.AddBool("decompressed", false, "also write the decompressed recording to <input>.decompressed")
	log := md.AddBool("log", false, "echo debugging log to stderr")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		setLogEcho()
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("INP recording required for %s mode", md)
	case 1:
		if *decompressed {
			if err := writeDecompressed(md.GetArg(0)); err != nil {
				return err
			}
		}

		var tbl *reference.Table
		if *refFile != "" {
			tbl, err = reference.Load(*refFile)
			if err != nil {
				return err
			}
		}

		ports, err := parsePortSpec(*portSpec)
		if err != nil {
			return err
		}

		doc, err := decoder.Decode(md.GetArg(0), tbl, decoder.Options{
			Ports:     ports,
			PortCount: *count,
		})
		if err != nil {
			return err
		}

		output := io.Writer(os.Stdout)
		if *outFile != "" {
			f, err := os.Create(*outFile)
			if err != nil {
				return err
			}
			defer f.Close()
			output = f
		}

		return doc.WriteJSON(output, *indent)
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}
}

// writeDecompressed dumps the recording header and the inflated body next to
// the input file.
func writeDecompressed(filename string) error {
	rec, err := inp.NewLoader(filename).Open()
	if err != nil {
		return err
	}
	defer rec.Close()

	f, err := os.Create(filename + ".decompressed")
	if err != nil {
		return err
	}

	// a truncated body cuts the dump short the same way it cuts decoding
	// short. the partial dump is kept
	if err := rec.WriteDecompressed(f); err != nil {
		logger.Logf(logger.Allow, "decode", "decompressed dump: %v", err)
	}

	return f.Close()
}

func listPorts(md *modalflag.Modes) error {
	md.NewMode()

	refFile := md.AddString("ref", "", "reference port table to resolve control names with")
	asJSON := md.AddBool("json", false, "write the port list as JSON instead of a table")
	log := md.AddBool("log", false, "echo debugging log to stderr")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		setLogEcho()
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("INP recording required for %s mode", md)
	case 1:
		var tbl *reference.Table
		if *refFile != "" {
			tbl, err = reference.Load(*refFile)
			if err != nil {
				return err
			}
		}

		pl, err := decoder.ListPorts(md.GetArg(0), tbl)
		if err != nil {
			return err
		}

		if *asJSON {
			return pl.WriteJSON(md.Output, true)
		}

		fmt.Fprintf(md.Output, "%s (INP %s, %d ports)\n", pl.Game, pl.Version, pl.PortCount)
		if pl.AppDesc != "" {
			fmt.Fprintf(md.Output, "recorded with %s at %s\n", pl.AppDesc, pl.Basetime.Format(time.RFC1123))
		}

		t := table.NewWriter()
		t.AppendHeader(table.Row{"port", "tag", "source", "controls"})
		for _, prt := range pl.Ports {
			controls := make([]string, 0, len(prt.Controls))
			for _, c := range prt.Controls {
				controls = append(controls, fmt.Sprintf("%d: %s", c.Bit, c.Name))
			}

			source := "fallback"
			if prt.FromReference {
				source = "reference"
			}

			t.AppendRow(table.Row{prt.Index, prt.Tag, source, strings.Join(controls, ", ")})
		}
		fmt.Fprintln(md.Output, t.Render())

		return nil
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}
}

func convertReference(md *modalflag.Modes) error {
	md.NewMode()

	outFile := md.AddString("o", "", "output file, gzipped when the name ends in .gz. stdout if not specified")
	log := md.AddBool("log", false, "echo debugging log to stderr")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		setLogEcho()
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("MAME -listxml output required for %s mode", md)
	case 1:
		in, err := os.Open(md.GetArg(0))
		if err != nil {
			return err
		}
		defer in.Close()

		if *outFile == "" {
			_, err = reference.Convert(in, os.Stdout)
			return err
		}

		f, err := os.Create(*outFile)
		if err != nil {
			return err
		}

		var stats reference.ConvertStats
		if strings.HasSuffix(*outFile, ".gz") {
			gzw := gzip.NewWriter(f)
			stats, err = reference.Convert(in, gzw)
			if cerr := gzw.Close(); err == nil {
				err = cerr
			}
		} else {
			stats, err = reference.Convert(in, f)
		}
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(md.Output, "%s: %s\n", *outFile, stats)

		return nil
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}
}

type yesReader struct{}

func (*yesReader) Read(p []byte) (n int, err error) {
	p[0] = 'y'
	return 1, nil
}

func regress(md *modalflag.Modes) error {
	md.NewMode()
	md.AddSubModes("RUN", "LIST", "DELETE", "ADD")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	switch md.Mode() {
	case "RUN":
		md.NewMode()

		verbose := md.AddBool("verbose", false, "output more detail (eg. error messages)")
		failOnError := md.AddBool("fail", false, "stop when a test encounters an error")
		log := md.AddBool("log", false, "echo debugging log to stderr")

		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		if *log {
			setLogEcho()
		}

		return regression.RegressRunTests(md.Output, *verbose, *failOnError, md.RemainingArgs())

	case "LIST":
		md.NewMode()

		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		switch len(md.RemainingArgs()) {
		case 0:
			return regression.RegressList(md.Output)
		default:
			return fmt.Errorf("no additional arguments required for %s mode", md)
		}

	case "DELETE":
		md.NewMode()

		answerYes := md.AddBool("yes", false, "answer yes to confirmation")

		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		switch len(md.RemainingArgs()) {
		case 0:
			return fmt.Errorf("database key required for %s mode", md)
		case 1:
			// use stdin for confirmation unless "yes" flag has been sent
			var confirmation io.Reader
			if *answerYes {
				confirmation = &yesReader{}
			} else {
				confirmation = os.Stdin
			}

			return regression.RegressDelete(md.Output, confirmation, md.GetArg(0))
		default:
			return fmt.Errorf("only one key can be deleted at a time")
		}

	case "ADD":
		return regressAdd(md)
	}

	return nil
}

func regressAdd(md *modalflag.Modes) error {
	md.NewMode()

	refFile := md.AddString("ref", "", "reference port table to resolve control names with")
	portSpec := md.AddString("ports", "", "limit decoding to the specified ports (eg. 0,2)")
	count := md.AddInt("count", 0, "override the port count in the recording header")
	log := md.AddBool("log", false, "echo debugging log to stderr")

	md.AdditionalHelp(
		`The arguments are the INP recordings to be added. Each recording becomes one
database entry, decoded with the supplied flags. The decode options and a digest
of the decoded document are stored so the test can be repeated exactly.

Note that asking for log output will interfere with the regression progress meter.`)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		setLogEcho()
	}

	ports, err := parsePortSpec(*portSpec)
	if err != nil {
		return err
	}

	if len(md.RemainingArgs()) == 0 {
		return fmt.Errorf("INP recording required for %s mode", md)
	}

	for _, rec := range md.RemainingArgs() {
		reg := &regression.DecodeRegression{
			Recording: rec,
			Reference: *refFile,
			Ports:     ports,
			Count:     *count,
		}

		if err := regression.RegressAdd(md.Output, reg); err != nil {
			// using carriage return (without newline) at the beginning of the
			// error message because we want to overwrite the last output from
			// RegressAdd()
			return fmt.Errorf("\rerror adding regression test: %v", err)
		}
	}

	return nil
}

func perform(md *modalflag.Modes) error {
	md.NewMode()

	refFile := md.AddString("ref", "", "reference port table to resolve control names with")
	duration := md.AddString("duration", "5s", "run duration")
	profile := md.AddString("profile", "none", "profile the run: cpu, mem, trace, all")
	stats := md.AddBool("statsview", false, "run the statsview server")
	log := md.AddBool("log", false, "echo debugging log to stderr")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		setLogEcho()
	}

	if *stats {
		if statsview.Available() {
			statsview.Launch(md.Output)
		} else {
			fmt.Fprintln(md.Output, "statsview not available in this build")
		}
	}

	prf, err := performance.ParseProfileString(*profile)
	if err != nil {
		return err
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("INP recording required for %s mode", md)
	case 1:
		return performance.Check(md.Output, prf, md.GetArg(0), *refFile, *duration)
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}
}

func showVersion(md *modalflag.Modes) error {
	md.NewMode()

	verbose := md.AddBool("v", false, "display revision information")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	ver, rev, _ := version.Version()
	fmt.Fprintf(md.Output, "%s %s\n", version.ApplicationName, ver)
	if *verbose {
		fmt.Fprintf(md.Output, "  revision: %s\n", rev)
	}

	return nil
}
