package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/canonhq/canonizer"
)

const bannerLine = "================================================================================"

// requiredRootDirs gate the whole run: without them no traversal is
// meaningful.
var requiredRootDirs = []string{
	canonizer.TransformsDirName,
	canonizer.SchemasDirName,
	"tools",
	filepath.Join(".github", "workflows"),
}

// ValidatorOptions configures a Validator. A nil Evaluator skips golden
// tests with a one-time warning; a nil MetaValidator restricts schema checks
// to JSON well-formedness.
type ValidatorOptions struct {
	Evaluator     canonizer.Evaluator
	MetaValidator canonizer.SchemaMetaValidator
	Logger        *zap.SugaredLogger
	Out           io.Writer
}

// Validator audits a registry checkout: structure, transform integrity,
// golden tests, schema well-formedness, identity uniqueness. One Validator
// owns one Report for one run.
type Validator struct {
	root    string
	eval    canonizer.Evaluator
	runner  *GoldenTestRunner
	checker *SchemaChecker
	logger  *zap.SugaredLogger
	out     io.Writer
	report  *canonizer.Report
	seen    map[string]bool // "<id>@<version>" pairs encountered
}

// NewValidator creates a validator for the registry rooted at root.
func NewValidator(root string, opts ValidatorOptions) *Validator {
	if opts.Logger == nil {
		opts.Logger = zap.S()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	v := &Validator{
		root:    root,
		eval:    opts.Evaluator,
		checker: NewSchemaChecker(opts.MetaValidator),
		logger:  opts.Logger,
		out:     opts.Out,
		report:  canonizer.NewReport(),
		seen:    make(map[string]bool),
	}
	if v.eval != nil {
		v.runner = NewGoldenTestRunner(v.eval)
	}
	return v
}

// Report returns the accumulated findings for this run.
func (v *Validator) Report() *canonizer.Report {
	return v.report
}

// ValidateAll runs every validation stage and prints the final verdict. The
// structure check gates the rest; all other stages run unconditionally so a
// single run surfaces the maximal set of problems.
func (v *Validator) ValidateAll() bool {
	fmt.Fprintln(v.out, bannerLine)
	fmt.Fprintln(v.out, "CANONIZER REGISTRY VALIDATION")
	fmt.Fprintln(v.out, bannerLine)
	fmt.Fprintln(v.out)

	success := v.CheckStructure()
	if success {
		success = v.CheckTransforms() && success
		success = v.CheckSchemas() && success
	}

	fmt.Fprintln(v.out)
	fmt.Fprintln(v.out, bannerLine)
	if success {
		fmt.Fprintln(v.out, "✅ ALL VALIDATIONS PASSED")
	} else {
		fmt.Fprintln(v.out, "❌ VALIDATION FAILED")
		fmt.Fprintln(v.out)
		fmt.Fprintf(v.out, "Errors: %d\n", len(v.report.Errors))
		for _, err := range v.report.Errors {
			fmt.Fprintf(v.out, "  - %s\n", err.Error())
		}
	}
	fmt.Fprintln(v.out, bannerLine)

	v.logger.Infow("validation run finished",
		"run_id", v.report.RunID,
		"success", success,
		"errors", len(v.report.Errors),
		"warnings", len(v.report.Warnings),
		"transforms", v.report.TransformCount,
		"schemas", v.report.SchemaCount,
	)
	return success
}

// CheckStructure verifies the registry's required top-level directories.
func (v *Validator) CheckStructure() bool {
	fmt.Fprintln(v.out, "Checking directory structure...")

	for _, dir := range requiredRootDirs {
		path := filepath.Join(v.root, dir)
		if info, err := os.Stat(path); err != nil || !info.IsDir() {
			v.report.Add(canonizer.NewStructuralError(v.root,
				fmt.Sprintf("missing required directory: %s", path)))
			return false
		}
	}

	fmt.Fprintln(v.out, "  ✓ Directory structure valid")
	return true
}

// CheckTransforms validates every transform version directory and enforces
// registry-wide (id, version) uniqueness.
func (v *Validator) CheckTransforms() bool {
	fmt.Fprintln(v.out, "Checking transforms...")

	if v.eval == nil {
		v.report.Warnf("jsonata evaluator unavailable, golden tests will be skipped")
		v.logger.Warnw("jsonata evaluator unavailable, golden tests will be skipped")
	}

	refs, err := TransformVersions(v.root)
	if err != nil {
		v.report.Add(canonizer.NewStructuralError(v.root, err.Error()).WithCause(err))
		return false
	}

	count, ok := v.checkVersionRefs(refs)
	v.report.TransformCount = count
	fmt.Fprintf(v.out, "  ✓ Validated %d transforms\n", count)
	return ok
}

// checkVersionRefs runs the per-unit sequence over version directories in
// traversal order. Duplicates are reported once; the first occurrence wins
// for subsequent checks.
func (v *Validator) checkVersionRefs(refs []canonizer.TransformRef) (count int, ok bool) {
	ok = true
	for _, ref := range refs {
		key := ref.String()
		if v.seen[key] {
			v.report.Add(canonizer.NewUniquenessError(key))
			ok = false
			continue
		}
		v.seen[key] = true

		if v.validateTransform(ref) {
			count++
		} else {
			ok = false
		}
	}
	return count, ok
}

// validateTransform runs all checks for one version directory. Independent
// checks still run after an earlier one fails, to maximize diagnostic yield;
// structural and parse failures short-circuit the unit.
func (v *Validator) validateTransform(ref canonizer.TransformRef) bool {
	unit := ref.String()

	if _, err := os.Stat(ref.ExpressionPath()); err != nil {
		v.report.Add(canonizer.NewStructuralError(unit, "missing "+canonizer.ExpressionFileName))
		return false
	}
	if _, err := os.Stat(ref.MetaPath()); err != nil {
		v.report.Add(canonizer.NewStructuralError(unit, "missing "+canonizer.MetaFileName))
		return false
	}
	if info, err := os.Stat(ref.TestsPath()); err != nil || !info.IsDir() {
		v.report.Add(canonizer.NewStructuralError(unit, "missing "+canonizer.TestsDirName+"/ directory"))
		return false
	}

	meta, err := canonizer.LoadVersionMeta(ref.MetaPath())
	if err != nil {
		v.report.Add(canonizer.NewMetadataError(unit, err.Error()).WithCause(err))
		return false
	}

	success := true
	for _, field := range meta.MissingRequired() {
		v.report.Add(canonizer.NewMetadataError(unit, "missing required field").WithField(field))
		success = false
	}

	if meta.ID != ref.ID() {
		v.report.Add(canonizer.NewIdentityError(unit, "id",
			fmt.Sprintf("id mismatch (expected %s, got %s)", ref.ID(), meta.ID)))
		success = false
	}
	if meta.Version != ref.Version {
		v.report.Add(canonizer.NewIdentityError(unit, "version",
			fmt.Sprintf("version mismatch (expected %s, got %s)", ref.Version, meta.Version)))
		success = false
	}
	if meta.Engine != canonizer.EngineJSONata {
		v.report.Add(canonizer.NewIdentityError(unit, "engine",
			fmt.Sprintf("invalid engine %q (must be %q)", meta.Engine, canonizer.EngineJSONata)))
		success = false
	}

	// Checksum verification is opportunistic: applied only when declared.
	if declared, ok := meta.DeclaredChecksum(); ok {
		actual, match, err := VerifyChecksum(ref.ExpressionPath(), declared)
		if err != nil {
			v.report.Add(canonizer.NewRegistryError(canonizer.ErrorKindIntegrity, unit, err.Error()).WithCause(err))
			success = false
		} else if !match {
			v.report.Add(canonizer.NewIntegrityError(unit, declared, actual))
			success = false
		}
	}

	if v.runner != nil && meta.Has("tests") {
		if !v.runGoldenTests(ref, meta) {
			success = false
		}
	}

	return success
}

// runGoldenTests executes every declared golden test case for one unit.
func (v *Validator) runGoldenTests(ref canonizer.TransformRef, meta *canonizer.VersionMeta) bool {
	unit := ref.String()

	expression, err := os.ReadFile(ref.ExpressionPath())
	if err != nil {
		v.report.Add(canonizer.NewBehavioralError(unit,
			fmt.Sprintf("golden test error: read expression: %v", err)).WithCause(err))
		return false
	}

	success := true
	for _, tc := range meta.Tests {
		inputPath := filepath.Join(ref.Dir, tc.Input)
		expectPath := filepath.Join(ref.Dir, tc.Expect)

		if _, err := os.Stat(inputPath); err != nil {
			v.report.Add(canonizer.NewStructuralError(unit, "test input not found: "+tc.Input))
			success = false
			continue
		}
		if _, err := os.Stat(expectPath); err != nil {
			v.report.Add(canonizer.NewStructuralError(unit, "test expected output not found: "+tc.Expect))
			success = false
			continue
		}

		input, err := readJSONDoc(inputPath)
		if err != nil {
			v.report.Add(canonizer.NewBehavioralError(unit,
				fmt.Sprintf("golden test error: %v", err)).WithCause(err))
			success = false
			continue
		}
		expected, err := readJSONDoc(expectPath)
		if err != nil {
			v.report.Add(canonizer.NewBehavioralError(unit,
				fmt.Sprintf("golden test error: %v", err)).WithCause(err))
			success = false
			continue
		}

		if failure := v.runner.Run(string(expression), input, expected); failure != nil {
			switch failure.Kind {
			case GoldenMismatch:
				var b strings.Builder
				fmt.Fprintf(&b, "golden test failed\n")
				fmt.Fprintf(&b, "  input: %s\n", tc.Input)
				fmt.Fprintf(&b, "  expected: %s\n", failure.Expected)
				fmt.Fprintf(&b, "  actual: %s", failure.Actual)
				v.report.Add(canonizer.NewBehavioralError(unit, b.String()))
			default:
				v.report.Add(canonizer.NewBehavioralError(unit, "golden test error: "+failure.Message))
			}
			success = false
		}
	}
	return success
}

func readJSONDoc(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

// CheckSchemas validates every schema file. A missing schemas directory is
// tolerated here (warning only); ValidateAll's structure gate already
// enforces its presence for full runs.
func (v *Validator) CheckSchemas() bool {
	fmt.Fprintln(v.out, "Checking schemas...")

	refs, err := SchemaFiles(v.root)
	if err != nil {
		v.report.Warnf("schemas directory not found under %s", v.root)
		fmt.Fprintln(v.out, "  ⚠ No schemas to validate")
		return true
	}

	success := true
	count := 0
	for _, ref := range refs {
		path := filepath.Join(v.root, filepath.FromSlash(ref.Path))
		warnings, err := v.checker.Check(path)
		for _, w := range warnings {
			v.report.Warnf("%s: %s", ref.Path, w)
			v.logger.Warnw("schema warning", "schema", ref.Path, "warning", w)
		}
		if err != nil {
			v.report.Add(canonizer.NewSchemaFormatError(ref.Path, err.Error()).WithCause(err))
			success = false
			continue
		}
		count++
	}

	v.report.SchemaCount = count
	fmt.Fprintf(v.out, "  ✓ Validated %d schemas\n", count)
	return success
}
