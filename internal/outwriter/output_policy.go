package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gradekit/gradekit/internal/contract"
	"github.com/gradekit/gradekit/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteGradingPolicy outputs the active grading policy, dispatching based on
// the output format configured. CSV has no sensible shape for a policy, so
// it falls back to the table form.
func WriteGradingPolicy(policy contract.GradingPolicy, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, policyRenderModel(policy))
		}, "Wrote JSON")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePolicyTable(policy, w)
		}, "Wrote table")
	}
}

// policyRenderModel shapes the policy for JSON output.
func policyRenderModel(policy contract.GradingPolicy) map[string]any {
	type jsonThreshold struct {
		Min    float64 `json:"min"`
		Letter string  `json:"letter"`
	}
	letters := make([]jsonThreshold, len(policy.Letters))
	for i, t := range policy.Letters {
		letters[i] = jsonThreshold{Min: t.Min, Letter: string(t.Letter)}
	}
	model := map[string]any{
		"instruction_bonus":     policy.InstructionBonus,
		"instruction_threshold": policy.InstructionThreshold,
		"late_penalty":          policy.LatePenalty,
		"rescale":               policy.Rescale,
		"letters":               letters,
	}
	if !policy.Deadline.IsZero() {
		model["deadline"] = policy.Deadline.Format(contract.DateTimeFormat)
	}
	return model
}

// writePolicyTable generates and writes the human-readable policy view.
func writePolicyTable(policy contract.GradingPolicy, writer io.Writer) error {
	deadline := "none"
	if !policy.Deadline.IsZero() {
		deadline = policy.Deadline.Format(contract.DateTimeFormat)
	}
	lines := []string{
		fmt.Sprintf("Instruction bonus: %.1f (average quality >= %.1f%%)", policy.InstructionBonus, policy.InstructionThreshold),
		fmt.Sprintf("Late penalty: %.1f (flat)", policy.LatePenalty),
		fmt.Sprintf("Deadline: %s", deadline),
		fmt.Sprintf("Rescale raw score: %t", policy.Rescale),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return err
		}
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Minimum", "Letter"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, t := range policy.Letters {
		data = append(data, []string{
			strconv.FormatFloat(t.Min, 'f', -1, 64),
			string(t.Letter),
		})
	}
	data = append(data, []string{"below", string(contract.FailingLetter)})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
