package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/hti-gh/applicant-portal/internal/api"
	"github.com/hti-gh/applicant-portal/internal/models"
	"github.com/hti-gh/applicant-portal/internal/payment"
	"github.com/hti-gh/applicant-portal/internal/session"
	"github.com/hti-gh/applicant-portal/internal/store"
	"github.com/hti-gh/applicant-portal/internal/wizard"
	"github.com/hti-gh/applicant-portal/pkg/config"
	"github.com/hti-gh/applicant-portal/pkg/export"
	"github.com/hti-gh/applicant-portal/pkg/logger"
)

// portal bundles the explicitly constructed stores the menu loop works
// with. Nothing here is package-level state.
type portal struct {
	cfg    *config.Config
	logger *zap.Logger
	reader *bufio.Reader

	client  *api.Client
	session *session.Store
	app     *store.Application
	ref     *store.Reference
	payment *payment.Service
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	validate := models.NewValidator()
	tokens := session.NewFileTokenStore(cfg.Session.TokenFile)
	client := api.New(cfg.API, tokens, validate, logr)
	sess := session.New(client, tokens, validate, logr, cfg.Session)
	client.SetUnauthorizedHook(func() {
		sess.Clear()
		color.Yellow("Your session expired. Please log in again.")
	})

	p := &portal{
		cfg:     cfg,
		logger:  logr,
		reader:  bufio.NewReader(os.Stdin),
		client:  client,
		session: sess,
		app:     store.NewApplication(client, validate, logr),
		ref:     store.NewReference(client, logr),
		payment: payment.NewService(client, validate, logr),
	}

	if p.session.Check() {
		color.Green("Welcome back.")
	}

	ctx := context.Background()
	for {
		p.displayMenu()
		switch p.readChoice() {
		case "1":
			p.handleLogin(ctx)
		case "2":
			p.handleBuyVoucher(ctx)
		case "3":
			p.handleCheckStatus(ctx)
		case "4":
			p.handleWizard(ctx)
		case "5":
			p.handleExport(ctx)
		case "6":
			p.session.Logout()
			color.Green("Logged out.")
		case "7":
			color.Green("Thank you for using the Health Training Admissions Portal.")
			return
		default:
			color.Red("Invalid choice. Please try again.")
		}
	}
}

func (p *portal) displayMenu() {
	color.Cyan("\n=== Health Training Admissions Portal ===")
	if p.session.Authenticated() {
		user := p.session.User()
		fmt.Printf("Logged in as %s %s\n", user.FirstName, user.LastName)
	}
	fmt.Println("1. Log in with voucher")
	fmt.Println("2. Buy application voucher")
	fmt.Println("3. Check payment status")
	fmt.Println("4. Continue application")
	fmt.Println("5. Export application summary")
	fmt.Println("6. Log out")
	fmt.Println("7. Exit")
}

func (p *portal) readChoice() string {
	fmt.Print("Enter choice: ")
	return p.readLine()
}

func (p *portal) readLine() string {
	line, _ := p.reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// prompt reads a value with an optional default shown in brackets.
func (p *portal) prompt(label, current string) string {
	if current != "" {
		fmt.Printf("%s [%s]: ", label, current)
	} else {
		fmt.Printf("%s: ", label)
	}
	value := p.readLine()
	if value == "" {
		return current
	}
	return value
}

func (p *portal) handleLogin(ctx context.Context) {
	pin := p.prompt("Voucher PIN", "")
	serial := p.prompt("Serial number", "")

	if err := p.session.Login(ctx, pin, serial); err != nil {
		// Login propagates so the front-end picks the message.
		color.Red("Login failed: %v", err)
		return
	}
	color.Green("Login successful.")
}

func (p *portal) handleBuyVoucher(ctx context.Context) {
	cb := payment.NewCallback(p.cfg.Payment, p.logger)
	if err := cb.Start(); err != nil {
		color.Red("Could not start the redirect listener: %v", err)
		return
	}
	defer cb.Shutdown(ctx)

	req := models.PaymentRequest{
		FirstName:       p.prompt("First name", ""),
		LastName:        p.prompt("Last name", ""),
		PhoneNumber:     p.prompt("Phone number", ""),
		Email:           p.prompt("Email", ""),
		GhanaCardNumber: strings.ToUpper(p.prompt("Ghana Card number (GHA-XXXXXXXXX-X)", "")),
		RedirectURL:     cb.URL(),
	}

	resp, err := p.payment.Initiate(ctx, req)
	if err != nil {
		color.Red("Payment could not be initiated: %v", err)
		return
	}

	color.Green("Invoice %s created.", resp.InvoiceNumber)
	fmt.Printf("Open this checkout link in your browser:\n  %s\n", resp.CheckoutURL)
	fmt.Println("Waiting for the payment to complete...")

	invoice, err := cb.Wait(ctx)
	if err != nil {
		color.Yellow("%v", err)
		color.Yellow("You can check the payment later with invoice %s.", resp.InvoiceNumber)
		return
	}
	if invoice == "" {
		invoice = resp.InvoiceNumber
	}
	p.reportStatus(ctx, invoice)
}

func (p *portal) handleCheckStatus(ctx context.Context) {
	invoice := p.prompt("Invoice number", "")
	if invoice == "" {
		color.Red("Invoice number required.")
		return
	}
	p.reportStatus(ctx, invoice)
}

func (p *portal) reportStatus(ctx context.Context, invoice string) {
	for {
		status, err := p.payment.CheckStatus(ctx, invoice)
		switch {
		case status == models.PaymentPaid:
			color.Green("Payment confirmed. Your voucher PIN and serial arrive by SMS and email.")
			return
		case status == models.PaymentPending:
			color.Yellow("Payment still pending.")
			if !p.confirm("Try again?") {
				return
			}
		case err != nil:
			color.Red("Status check failed: %v", err)
			if !p.confirm("Try again?") {
				return
			}
		default:
			color.Red("Payment %s.", strings.ToLower(string(status)))
			return
		}
	}
}

func (p *portal) handleExport(ctx context.Context) {
	if !p.requireLogin() {
		return
	}
	if err := p.app.Fetch(ctx); err != nil {
		color.Red("Could not load your application: %s", p.app.Err())
		return
	}

	preview := wizard.NewPreview(p.app, p.client, p.logger)
	sections := toExportSections(preview.Sections())
	if len(sections) == 0 {
		color.Red("Nothing to export yet.")
		return
	}

	pdfBytes, err := export.NewPDFExporter().Render("Admission Application Summary", sections)
	if err != nil {
		color.Red("PDF export failed: %v", err)
		return
	}
	pdfPath := filepath.Join(p.cfg.Export.OutputDir, "application-summary.pdf")
	if err := os.WriteFile(pdfPath, pdfBytes, 0o644); err != nil {
		color.Red("Could not write %s: %v", pdfPath, err)
		return
	}

	csvBytes, err := export.NewCSVExporter().Render(sections)
	if err != nil {
		color.Red("CSV export failed: %v", err)
		return
	}
	csvPath := filepath.Join(p.cfg.Export.OutputDir, "application-summary.csv")
	if err := os.WriteFile(csvPath, csvBytes, 0o644); err != nil {
		color.Red("Could not write %s: %v", csvPath, err)
		return
	}

	color.Green("Exported %s and %s.", pdfPath, csvPath)
}

func (p *portal) requireLogin() bool {
	if p.session.Authenticated() || p.session.Check() {
		return true
	}
	color.Red("Please log in first.")
	return false
}

func (p *portal) confirm(label string) bool {
	fmt.Printf("%s (y/n): ", label)
	answer := strings.ToLower(p.readLine())
	return answer == "y" || answer == "yes"
}

func toExportSections(sections []wizard.Section) []export.Section {
	out := make([]export.Section, 0, len(sections))
	for _, s := range sections {
		out = append(out, export.Section{Title: s.Title, Rows: s.Rows})
	}
	return out
}
