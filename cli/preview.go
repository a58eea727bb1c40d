package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Masood0319/Startups-platform/compliance"
	"github.com/Masood0319/Startups-platform/config"

	"github.com/spf13/cobra"
)

var (
	previewType     string
	previewAmount   string
	previewTerms    string
	previewInvestor string
	previewStartup  string
	previewPolicy   string
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render an agreement preview offline",
	Long: `Renders the agreement preview for the given terms and reports any
validation problems. No database is needed; the startup industry screen is
not applied.

Example:
  travest preview --type mudarabah --amount 5000 \
    --terms '{"profitRatioInvestor":60,"profitRatioStartup":40}' \
    --investor "Aisha Rahman" --startup "Ledgerly"`,
	RunE: runPreview,
}

func init() {
	f := previewCmd.Flags()
	f.StringVar(&previewType, "type", "", "investment type or alias (equity, mudarabah, safe, revenue, crowdfunding)")
	f.StringVar(&previewAmount, "amount", "", "investment amount")
	f.StringVar(&previewTerms, "terms", "{}", "terms as JSON, or @path to read a JSON file")
	f.StringVar(&previewInvestor, "investor", "", "investor name")
	f.StringVar(&previewStartup, "startup", "", "startup name")
	f.StringVar(&previewPolicy, "policy", os.Getenv("COMPLIANCE_POLICY_FILE"), "compliance policy TOML file")
	_ = previewCmd.MarkFlagRequired("type")
}

func runPreview(cmd *cobra.Command, args []string) error {
	terms, err := readTerms(previewTerms)
	if err != nil {
		return err
	}
	policy, err := config.LoadPolicy(previewPolicy)
	if err != nil {
		return err
	}

	var amount any
	if previewAmount != "" {
		amount = json.Number(previewAmount)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, compliance.BuildAgreementPreview(compliance.PreviewInput{
		Type:     previewType,
		Amount:   amount,
		Investor: compliance.Party{Name: previewInvestor},
		Startup:  compliance.Party{Name: previewStartup},
		Terms:    terms,
	}))

	errs := compliance.NewValidator(compliance.NewScanner(policy)).Validate(previewType, amount, terms)
	if len(errs) == 0 {
		return nil
	}
	fmt.Fprintln(out)
	for _, e := range errs {
		fmt.Fprintln(out, "! "+e)
	}
	return fmt.Errorf("terms failed validation (%d issues)", len(errs))
}

// readTerms parses inline JSON or, with a leading @, the named file.
func readTerms(arg string) (map[string]any, error) {
	raw := []byte(arg)
	if strings.HasPrefix(arg, "@") {
		b, err := os.ReadFile(strings.TrimPrefix(arg, "@"))
		if err != nil {
			return nil, fmt.Errorf("read terms: %w", err)
		}
		raw = b
	}
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	var terms map[string]any
	if err := dec.Decode(&terms); err != nil {
		return nil, fmt.Errorf("terms must be a JSON object: %w", err)
	}
	return terms, nil
}
