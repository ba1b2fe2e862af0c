// Command pdftool runs the stamping engine against local files, e.g.
//
//	pdftool render -title "Acta" -in acta.txt -out acta.pdf
//	pdftool stamp -in acta.pdf -out firmada.pdf -surname Alvarez -name Ana -id u-a -ordinal 0
//	pdftool folio -in acta.pdf -out foliada.pdf -start 12
//	pdftool verify -in firmada.pdf -surname Alvarez -id u-a
//	pdftool pages -in acta.pdf
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/SeakMengs/AutoActa/pkg/pdfstamp"
	"go.uber.org/zap"
)

func main() {
	logger := zap.Must(zap.NewDevelopment()).Sugar()
	defer logger.Sync()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	if err := run(os.Args[1], os.Args[2:]); err != nil {
		logger.Fatalf("%s: %v", os.Args[1], err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: pdftool <render|stamp|folio|verify|pages> [flags]")
}

func run(cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	in := fs.String("in", "", "input file")
	out := fs.String("out", "", "output pdf")
	fontPath := fs.String("font", "", "ttf/otf font used to render text, embedded Latin Modern when empty")

	switch cmd {
	case "render":
		title := fs.String("title", "", "document title")
		fs.Parse(args)

		text, err := os.ReadFile(*in)
		if err != nil {
			return err
		}
		engine := pdfstamp.NewEngine(&pdfstamp.Config{FontPath: *fontPath})
		pdf, err := engine.RenderText(*title, strings.Split(string(text), "\n\n"))
		if err != nil {
			return err
		}
		return os.WriteFile(*out, pdf, 0o644)

	case "stamp":
		surname := fs.String("surname", "", "signer surname")
		name := fs.String("name", "", "signer name")
		id := fs.String("id", "", "signer id")
		role := fs.String("role", "", "signer role")
		ordinal := fs.Int("ordinal", 0, "0-based stamp position")
		fs.Parse(args)

		pdf, err := os.ReadFile(*in)
		if err != nil {
			return err
		}
		stamped, err := pdfstamp.NewEngine(nil).AddSignatureStamp(pdf, pdfstamp.Signer{Surname: *surname, Name: *name, ID: *id, Role: *role}, *ordinal)
		if err != nil {
			return err
		}
		return os.WriteFile(*out, stamped, 0o644)

	case "folio":
		start := fs.Int("start", 1, "first folio number")
		fs.Parse(args)

		pdf, err := os.ReadFile(*in)
		if err != nil {
			return err
		}
		stamped, last, err := pdfstamp.NewEngine(nil).AddFolioStamp(pdf, *start)
		if err != nil {
			return err
		}
		fmt.Printf("Folios %d-%d\n", *start, last)
		return os.WriteFile(*out, stamped, 0o644)

	case "verify":
		surname := fs.String("surname", "", "expected signer surname")
		id := fs.String("id", "", "expected signer id")
		fs.Parse(args)

		pdf, err := os.ReadFile(*in)
		if err != nil {
			return err
		}
		ok, missing, err := pdfstamp.NewEngine(nil).VerifySigned(pdf, []pdfstamp.Signer{{Surname: *surname, ID: *id}})
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("signature not found: %+v", missing)
		}
		fmt.Println("Signature present")
		return nil

	case "pages":
		fs.Parse(args)

		pdf, err := os.ReadFile(*in)
		if err != nil {
			return err
		}
		n, err := pdfstamp.NewEngine(nil).PageCount(pdf)
		if err != nil {
			return err
		}
		fmt.Printf("PDF Page Count: %d\n", n)
		return nil
	}

	usage()
	return fmt.Errorf("unknown command %q", cmd)
}
