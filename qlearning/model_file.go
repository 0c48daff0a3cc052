package qlearning

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-kit/log/level"
	"gonum.org/v1/gonum/mat"
)

// modelHeader is the first token of every model file.
const modelHeader = "VER2"

// ErrModelFormat is returned when a model file body cannot be parsed.
var ErrModelFormat = errors.New("malformed model file")

// Save writes epsilon and all weights to path. The data goes to a temporary
// file in the same directory which is then renamed over path, so readers
// never see a half-written model.
func (a *Agent) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		_ = level.Error(a.logger).Log("msg", "could not save model", "path", path, "err", err)
		return fmt.Errorf("create temp model: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	w := bufio.NewWriter(tmp)
	if err := a.writeModel(w); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write model: %w", err)
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("flush model: %w", err)
	}
	// CreateTemp uses 0600; other training processes must be able to read the model.
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("chmod model: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close model: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		_ = level.Error(a.logger).Log("msg", "atomic rename failed", "path", path, "err", err)
		return fmt.Errorf("rename model: %w", err)
	}
	return nil
}

// writeModel emits the VER2 layout: header, epsilon, then for every
// non-input layer one line of biases followed by one line per weight row.
func (a *Agent) writeModel(w io.Writer) error {
	bw := &floatWriter{w: w}
	bw.line(modelHeader)
	bw.line(strconv.FormatFloat(a.Epsilon, 'g', -1, 64))
	for _, l := range a.Net.Layers[1:] {
		bw.floats(l.Biases.RawVector().Data)
		for r := 0; r < l.Size; r++ {
			bw.floats(l.Weights.RawRowView(r))
		}
	}
	return bw.err
}

type floatWriter struct {
	w   io.Writer
	buf []byte
	err error
}

func (f *floatWriter) line(s string) {
	if f.err != nil {
		return
	}
	_, f.err = io.WriteString(f.w, s+"\n")
}

func (f *floatWriter) floats(vals []float64) {
	if f.err != nil {
		return
	}
	f.buf = f.buf[:0]
	for _, v := range vals {
		f.buf = strconv.AppendFloat(f.buf, v, 'g', -1, 64)
		f.buf = append(f.buf, ' ')
	}
	f.buf = append(f.buf, '\n')
	_, f.err = f.w.Write(f.buf)
}

// Load reads a model written by Save.
//
// A missing file leaves the agent as it is. An unknown header only resets
// epsilon to FallbackEpsilon. A truncated or garbled body returns an error
// and leaves the agent untouched.
func (a *Agent) Load(path string) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		_ = level.Info(a.logger).Log("msg", "no model found, starting fresh", "path", path)
		return nil
	}
	if err != nil {
		_ = level.Error(a.logger).Log("msg", "could not open model", "path", path, "err", err)
		return fmt.Errorf("open model: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Split(bufio.ScanWords)

	if !sc.Scan() || sc.Text() != modelHeader {
		if err := sc.Err(); err != nil {
			return fmt.Errorf("read model header: %w", err)
		}
		a.Epsilon = FallbackEpsilon
		_ = level.Warn(a.logger).Log("msg", "old model format detected, resetting epsilon", "path", path, "epsilon", a.Epsilon)
		return nil
	}

	next := func(what string) (float64, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, fmt.Errorf("read %s: %w", what, err)
			}
			return 0, fmt.Errorf("%w: unexpected end of file reading %s", ErrModelFormat, what)
		}
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrModelFormat, what, err)
		}
		return v, nil
	}

	epsilon, err := next("epsilon")
	if err != nil {
		return err
	}

	// Parse everything into scratch layers first, swap only on success.
	scratch := make([]Layer, len(a.Net.Layers))
	scratch[0] = a.Net.Layers[0]
	for i := 1; i < len(a.Net.Layers); i++ {
		size := a.Net.Layers[i].Size
		prev := a.Net.Layers[i-1].Size

		what := fmt.Sprintf("layer %d biases", i)
		b := make([]float64, size)
		for j := range b {
			if b[j], err = next(what); err != nil {
				return err
			}
		}
		what = fmt.Sprintf("layer %d weights", i)
		w := make([]float64, size*prev)
		for j := range w {
			if w[j], err = next(what); err != nil {
				return err
			}
		}
		scratch[i] = Layer{
			Size:    size,
			Weights: mat.NewDense(size, prev, w),
			Biases:  mat.NewVecDense(size, b),
		}
	}

	a.Net.Layers = scratch
	a.Epsilon = epsilon
	_ = level.Info(a.logger).Log("msg", "model loaded", "path", path, "epsilon", epsilon)
	return nil
}
