// Package naming generates random file names and resolves them against the
// filesystem so a generated target never names an existing entry.
//
// A name is a UUID token with the source file's extension appended:
//
//	report.final.PDF -> 3F2504E0-4F89-41D3-9A0C-0305E82C3301.PDF
//	Makefile         -> 3F2504E0-4F89-41D3-9A0C-0305E82C3301
//
// [Resolver] retries generation while the candidate exists and, after
// MaxAttempts, falls back to numbered variants of the last token so a broken
// generator can never spin forever.
package naming
