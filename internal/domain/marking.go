package domain

import "fmt"

const (
	CodeStatusGenerated = "generated"
	CodeStatusPrinted   = "printed"
	CodeStatusFailed    = "failed"

	BatchStatusGenerated        = "generated"
	BatchStatusPrinted          = "printed"
	BatchStatusPartiallyPrinted = "partially_printed"
	BatchStatusFailed           = "failed"
)

// IsTerminalCodeStatus reports whether s is a status the print workflow may
// set. "generated" is creation-only and cannot be re-applied.
func IsTerminalCodeStatus(s string) bool {
	return s == CodeStatusPrinted || s == CodeStatusFailed
}

// FormatSequence zero-pads to a minimum of two digits without capping:
// 7 -> "07", 100 -> "100".
func FormatSequence(n int) string {
	return fmt.Sprintf("%02d", n)
}

func RenderDisplayCode(productCode string, sequence int, voyageNumber string) string {
	return fmt.Sprintf("%s|%s|%s", productCode, FormatSequence(sequence), voyageNumber)
}

// RenderBatchLabel is a compatibility surface: downstream printing workflows
// parse this exact "first to last" shape.
func RenderBatchLabel(productCode string, firstSeq, lastSeq int, voyageNumber string) string {
	return fmt.Sprintf("%s to %s",
		RenderDisplayCode(productCode, firstSeq, voyageNumber),
		RenderDisplayCode(productCode, lastSeq, voyageNumber))
}

// DeriveBatchStatus reduces member code statuses to the batch status. The
// empty string means "leave the stored status alone": codes that have not
// left "generated" carry no print outcome yet.
func DeriveBatchStatus(codeStatuses []string) string {
	if len(codeStatuses) == 0 {
		return ""
	}
	printed, failed := 0, 0
	for _, s := range codeStatuses {
		switch s {
		case CodeStatusPrinted:
			printed++
		case CodeStatusFailed:
			failed++
		}
	}
	switch {
	case printed == len(codeStatuses):
		return BatchStatusPrinted
	case failed == len(codeStatuses):
		return BatchStatusFailed
	case printed+failed > 0:
		return BatchStatusPartiallyPrinted
	default:
		return ""
	}
}
