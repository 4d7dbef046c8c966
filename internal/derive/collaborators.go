package derive

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/japanese"

	"discsub/internal/submission"
)

// AntiModchipDetector reports whether a disc carries anti-modchip code.
type AntiModchipDetector interface {
	DetectAntiModchip(ctx context.Context, rec *submission.Record) (submission.YesNo, error)
}

// LibCryptDetector inspects subchannel data for LibCrypt protection. data is
// the raw sector list to keep alongside the verdict.
type LibCryptDetector interface {
	DetectLibCrypt(ctx context.Context, rec *submission.Record) (verdict submission.YesNo, data string, err error)
}

// ProtectionScanner runs a copy-protection scan.
type ProtectionScanner interface {
	ScanProtection(ctx context.Context, rec *submission.Record) (Protection, error)
}

// Protection is the outcome of a copy-protection scan.
type Protection struct {
	// Summary is the de-duplicated list of protections found.
	Summary string
	// Findings maps a scanned path to what was found in it.
	Findings map[string]string
}

// AntiModchipFunc adapts a function to AntiModchipDetector.
type AntiModchipFunc func(ctx context.Context, rec *submission.Record) (submission.YesNo, error)

func (f AntiModchipFunc) DetectAntiModchip(ctx context.Context, rec *submission.Record) (submission.YesNo, error) {
	return f(ctx, rec)
}

// LibCryptFunc adapts a function to LibCryptDetector.
type LibCryptFunc func(ctx context.Context, rec *submission.Record) (submission.YesNo, string, error)

func (f LibCryptFunc) DetectLibCrypt(ctx context.Context, rec *submission.Record) (submission.YesNo, string, error) {
	return f(ctx, rec)
}

// ProtectionFunc adapts a function to ProtectionScanner.
type ProtectionFunc func(ctx context.Context, rec *submission.Record) (Protection, error)

func (f ProtectionFunc) ScanProtection(ctx context.Context, rec *submission.Record) (Protection, error) {
	return f(ctx, rec)
}

const (
	antiModchipEnglish  = "     SOFTWARE TERMINATED\nCONSOLE MAY HAVE BEEN MODIFIED\n     CALL 1-888-780-7690"
	antiModchipJapanese = "強制終了しました。\n本体が改造されている\nおそれがあります。"

	scanChunkSize = 64 << 10
)

// antiModchipSignatures holds the messages as stored on disc: ASCII for the
// English text, Shift-JIS for the Japanese one.
var antiModchipSignatures = buildAntiModchipSignatures()

func buildAntiModchipSignatures() [][]byte {
	sigs := [][]byte{[]byte(antiModchipEnglish)}
	if sjis, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte(antiModchipJapanese)); err == nil {
		sigs = append(sigs, sjis)
	}
	return sigs
}

// FileAntiModchipScanner searches the files under Root for the anti-modchip
// messages PlayStation titles print on modified consoles.
type FileAntiModchipScanner struct {
	Root string
}

func (s FileAntiModchipScanner) DetectAntiModchip(ctx context.Context, _ *submission.Record) (submission.YesNo, error) {
	if strings.TrimSpace(s.Root) == "" {
		return submission.YesNoUnset, errors.New("disc root not set")
	}
	found := false
	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !d.Type().IsRegular() {
			return nil
		}
		hit, err := fileContainsAny(path, antiModchipSignatures)
		if err != nil {
			return err
		}
		if hit {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return submission.YesNoUnset, err
	}
	if found {
		return submission.Yes, nil
	}
	return submission.No, nil
}

func fileContainsAny(path string, sigs [][]byte) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	hit, err := containsAny(f, sigs)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	return hit, nil
}

// containsAny streams r in fixed chunks, carrying the tail of each chunk
// over so signatures spanning a chunk boundary still match.
func containsAny(r io.Reader, sigs [][]byte) (bool, error) {
	overlap := 0
	for _, sig := range sigs {
		overlap = max(overlap, len(sig)-1)
	}
	buf := make([]byte, scanChunkSize+overlap)
	keep := 0
	for {
		n, err := io.ReadFull(r, buf[keep:])
		window := buf[:keep+n]
		for _, sig := range sigs {
			if bytes.Contains(window, sig) {
				return true, nil
			}
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		keep = min(overlap, len(window))
		copy(buf, window[len(window)-keep:])
	}
}

// Executor abstracts command execution for the command scanner.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	return cmd.Output()
}

// CommandScanner runs an external protection scanner against a mounted disc.
// The disc root is appended to Args; each output line of the form
// "path: protection" becomes a finding.
type CommandScanner struct {
	Binary string
	Args   []string
	Root   string
	exec   Executor
}

// NewCommandScanner constructs a CommandScanner using os/exec.
func NewCommandScanner(binary string, args []string, root string) *CommandScanner {
	return NewCommandScannerWithExecutor(binary, args, root, nil)
}

// NewCommandScannerWithExecutor allows injecting a custom executor for testing.
func NewCommandScannerWithExecutor(binary string, args []string, root string, executor Executor) *CommandScanner {
	if executor == nil {
		executor = commandExecutor{}
	}
	return &CommandScanner{
		Binary: strings.TrimSpace(binary),
		Args:   append([]string(nil), args...),
		Root:   root,
		exec:   executor,
	}
}

func (s *CommandScanner) ScanProtection(ctx context.Context, _ *submission.Record) (Protection, error) {
	if s.Binary == "" {
		return Protection{}, errors.New("protection scanner not configured")
	}
	if strings.TrimSpace(s.Root) == "" {
		return Protection{}, errors.New("disc root not set")
	}
	args := append(append([]string(nil), s.Args...), s.Root)
	output, err := s.exec.Run(ctx, s.Binary, args)
	if err != nil {
		return Protection{}, fmt.Errorf("run %s: %w", s.Binary, err)
	}
	return ParseScannerOutput(output, s.Root), nil
}

// ParseScannerOutput turns "path: protection" lines into a Protection. Paths
// are made relative to root when possible. Lines without a protection are
// ignored.
func ParseScannerOutput(output []byte, root string) Protection {
	result := Protection{Findings: map[string]string{}}
	var order []string
	seen := map[string]bool{}

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		path, found, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		path = strings.TrimSpace(path)
		found = strings.TrimSpace(found)
		if path == "" || found == "" {
			continue
		}
		if root != "" {
			if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
				path = rel
			}
		}
		result.Findings[path] = found
		for _, name := range strings.Split(found, ", ") {
			name = strings.TrimSpace(name)
			if name != "" && !seen[name] {
				seen[name] = true
				order = append(order, name)
			}
		}
	}
	result.Summary = strings.Join(order, ", ")
	if len(result.Findings) == 0 {
		result.Findings = nil
	}
	return result
}
