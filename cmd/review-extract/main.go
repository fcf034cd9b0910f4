package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/klinikbm/review-pasien/internal/config"
	"github.com/klinikbm/review-pasien/internal/pipeline"
)

var (
	outputFormat = flag.String("format", "text", "Output format: text, json")
	renderText   = flag.Bool("render", false, "Render the follow-up message for every record")
	visitStage   = flag.String("visit", "", "Visit stage applied to all records when rendering (1-5 or 'Kunjungan N')")
	docxPath     = flag.String("docx", "", "Write the rendered message to this DOCX file")
	threshold    = flag.Float64("threshold", config.DefaultThreshold, "Doctor-match similarity threshold (0-1)")
	help         = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: PDF file path required\n\n")
		printUsage()
		os.Exit(1)
	}

	service := pipeline.NewService(config.DefaultMaxFileSize, *threshold)

	doc, err := service.ParseFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing report: %v\n", err)
		os.Exit(1)
	}

	if *renderText || *docxPath != "" {
		if err := outputRendered(service, doc); err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering message: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := outputRecords(doc); err != nil {
		fmt.Fprintf(os.Stderr, "Error outputting results: %v\n", err)
		os.Exit(1)
	}
}

// outputRecords prints the extracted records in the selected format.
func outputRecords(doc *pipeline.Document) error {
	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(doc.Records)
	case "text":
		fmt.Printf("Records: %d\n", len(doc.Records))
		if doc.PeriodDate != nil {
			fmt.Printf("Period start: %s\n", doc.PeriodDate.Format("02/01/2006"))
		}
		fmt.Println()
		for _, rec := range doc.Records {
			fmt.Printf("%d. %s\n", rec.SequenceNumber, rec.FullName)
			fmt.Printf("   RM: %s  DOB: %s\n", rec.RecordNumber, rec.DateOfBirth)
			if rec.DoctorCanonical != "" {
				fmt.Printf("   DPJP: %s\n", rec.DoctorCanonical)
			} else if rec.DoctorRaw != "" {
				fmt.Printf("   DPJP (unresolved): %s\n", rec.DoctorRaw)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", *outputFormat)
	}
}

// outputRendered renders the message with every record checked and
// prints it, or writes it as DOCX when requested.
func outputRendered(service *pipeline.Service, doc *pipeline.Document) error {
	edits := make([]pipeline.RowEdit, 0, len(doc.Records))
	for _, rec := range doc.Records {
		edits = append(edits, pipeline.RowEdit{
			SequenceNumber: rec.SequenceNumber,
			Checked:        true,
			Visit:          *visitStage,
		})
	}

	if *docxPath != "" {
		f, err := os.Create(*docxPath)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer f.Close()
		if err := service.ExportDocx(f, doc.ID, edits); err != nil {
			return err
		}
		fmt.Printf("Wrote DOCX report to %s\n", *docxPath)
		return nil
	}

	text, err := service.Render(doc.ID, edits)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

func printHelp() {
	fmt.Println("review-extract - extract patient records from a clinic visit-report PDF")
	fmt.Println()
	printUsage()
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  review-extract report.pdf                      # list extracted records")
	fmt.Println("  review-extract -format=json report.pdf         # records as JSON")
	fmt.Println("  review-extract -render -visit=3 report.pdf     # message text, all records at Kunjungan 3")
	fmt.Println("  review-extract -docx=out.docx report.pdf       # message as a DOCX file")
}

func printUsage() {
	fmt.Println("Usage: review-extract [options] <pdf-file>")
}
