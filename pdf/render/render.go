// Package render implements a multi-worker PDF rasterization pipeline: an
// N-worker pool rasterizes pages with github.com/gen2brain/go-fitz, tints
// them to the active two-tone theme, and caches the results keyed by
// (page index, theme colors, scale).
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"regexp"
	"strconv"
	"sync"

	fitz "github.com/gen2brain/go-fitz"
	"go.uber.org/zap"

	"github.com/bugzmanov/bookokrat/common"
	"github.com/bugzmanov/bookokrat/pdf/page"
	"github.com/bugzmanov/bookokrat/pdf/pagenum"
)

// Request asks the service to rasterize (and/or extract text from) one page.
type Request struct {
	PageIndex int
	Scale     float64
	Theme     common.Theme
	WantText  bool
}

// ResultKind discriminates a Result.
type ResultKind int

const (
	ResultPage ResultKind = iota
	ResultExtractedText
	ResultError
	ResultWorkerFault
)

// Result is the tagged union emitted on the service's output channel:
// a rasterized Page, ExtractedText, an Error, or a WorkerFault.
type Result struct {
	Kind       ResultKind
	PageIndex  int
	Descriptor *page.Descriptor
	Text       string
	Samples    []pagenum.Sample
	Err        error
}

// cacheKey identifies one rasterized-and-tinted page; distinct themes or
// scales never share a cache entry.
type cacheKey struct {
	pageIndex int
	black     [3]uint8
	white     [3]uint8
	scale     float64
}

// Service owns the fitz document handle, a fixed worker pool, and the page
// cache. A fitz.Document is not safe for concurrent page access, so workers
// serialize access to it behind docMu while still running theme-tinting and
// cache bookkeeping concurrently.
type Service struct {
	log *zap.Logger

	docMu sync.Mutex
	doc   *fitz.Document

	requests chan Request
	results  chan Result
	wg       sync.WaitGroup

	cacheMu   sync.Mutex
	cache     map[cacheKey]*page.Descriptor
	cacheOrd  []cacheKey
	cacheCap  int
	numWorker int
}

// NewService opens path with go-fitz and prepares a worker pool of size
// workers and an LRU page cache holding cacheCap entries.
func NewService(path string, workers, cacheCap int, log *zap.Logger) (*Service, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("render: open %s: %w", path, err)
	}
	if workers < 1 {
		workers = 1
	}
	if cacheCap < 1 {
		cacheCap = 1
	}
	return &Service{
		log:       log,
		doc:       doc,
		requests:  make(chan Request, workers*2),
		results:   make(chan Result, workers*2),
		cache:     make(map[cacheKey]*page.Descriptor, cacheCap),
		cacheCap:  cacheCap,
		numWorker: workers,
	}, nil
}

// NumPage returns the document's page count.
func (s *Service) NumPage() int {
	s.docMu.Lock()
	defer s.docMu.Unlock()
	return s.doc.NumPage()
}

// Start launches the worker pool; it returns immediately. Workers stop when
// ctx is cancelled or Close is called.
func (s *Service) Start(ctx context.Context) {
	for i := 0; i < s.numWorker; i++ {
		s.wg.Add(1)
		go s.work(ctx)
	}
}

// Submit enqueues a render request. It blocks if the request buffer is full.
func (s *Service) Submit(req Request) {
	s.requests <- req
}

// Results returns the channel results are delivered on.
func (s *Service) Results() <-chan Result {
	return s.results
}

// Close stops accepting new requests, waits for in-flight work to drain, and
// closes the underlying document.
func (s *Service) Close() error {
	close(s.requests)
	s.wg.Wait()
	close(s.results)

	s.docMu.Lock()
	defer s.docMu.Unlock()
	return s.doc.Close()
}

func (s *Service) work(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-s.requests:
			if !ok {
				return
			}
			s.process(req)
		}
	}
}

func (s *Service) process(req Request) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("render worker fault", zap.Int("page", req.PageIndex), zap.Any("panic", r))
			s.results <- Result{Kind: ResultWorkerFault, PageIndex: req.PageIndex, Err: fmt.Errorf("worker fault: %v", r)}
		}
	}()

	key := cacheKey{pageIndex: req.PageIndex, black: req.Theme.BlackRGB, white: req.Theme.WhiteRGB, scale: req.Scale}
	if desc, ok := s.cacheGet(key); ok {
		s.results <- Result{Kind: ResultPage, PageIndex: req.PageIndex, Descriptor: desc}
	} else {
		desc, err := s.rasterize(req)
		if err != nil {
			s.results <- Result{Kind: ResultError, PageIndex: req.PageIndex, Err: err}
		} else {
			s.cachePut(key, desc)
			s.results <- Result{Kind: ResultPage, PageIndex: req.PageIndex, Descriptor: desc}
		}
	}

	if req.WantText {
		text, samples, err := s.extractText(req.PageIndex)
		if err != nil {
			s.results <- Result{Kind: ResultError, PageIndex: req.PageIndex, Err: err}
			return
		}
		s.results <- Result{Kind: ResultExtractedText, PageIndex: req.PageIndex, Text: text, Samples: samples}
	}
}

func (s *Service) rasterize(req Request) (*page.Descriptor, error) {
	s.docMu.Lock()
	img, err := s.doc.ImageDPI(req.PageIndex, 72.0*req.Scale)
	s.docMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", req.PageIndex, err)
	}

	tinted := tintTwoTone(img, req.Theme.BlackRGB, req.Theme.WhiteRGB)
	bounds := tinted.Bounds()

	return &page.Descriptor{
		PixelW:          bounds.Dx(),
		PixelH:          bounds.Dy(),
		HasPixelSize:    true,
		ScaleFactor:     req.Scale,
		HasScaleFactor:  true,
		PagePxHeight:    bounds.Dy(),
		HasPagePxHeight: true,
		Img: &page.ConvertedImage{
			Kind:       page.ConvertedKitty,
			ImageState: page.ImageState{Kind: page.ImageQueued, Bytes: encodePNG(tinted)},
		},
	}, nil
}

func (s *Service) extractText(pageIndex int) (string, []pagenum.Sample, error) {
	s.docMu.Lock()
	text, err := s.doc.Text(pageIndex)
	s.docMu.Unlock()
	if err != nil {
		return "", nil, fmt.Errorf("extract text page %d: %w", pageIndex, err)
	}
	return text, minePageNumberSamples(pageIndex, text), nil
}

// trailingNumber matches any line of a page's text that holds only a lone
// integer (1-5 digits), the usual shape of a printed page number.
var trailingNumber = regexp.MustCompile(`(?m)^\s*(\d{1,5})\s*$`)

func minePageNumberSamples(pageIndex int, text string) []pagenum.Sample {
	matches := trailingNumber.FindAllStringSubmatch(text, -1)
	samples := make([]pagenum.Sample, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		samples = append(samples, pagenum.Sample{PageIndex: pageIndex, Printed: n})
	}
	return samples
}

func (s *Service) cacheGet(key cacheKey) (*page.Descriptor, bool) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	desc, ok := s.cache[key]
	if ok {
		s.touch(key)
	}
	return desc, ok
}

func (s *Service) cachePut(key cacheKey, desc *page.Descriptor) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if _, exists := s.cache[key]; !exists && len(s.cache) >= s.cacheCap {
		oldest := s.cacheOrd[0]
		s.cacheOrd = s.cacheOrd[1:]
		delete(s.cache, oldest)
	}
	s.cache[key] = desc
	s.touch(key)
}

func (s *Service) touch(key cacheKey) {
	for i, k := range s.cacheOrd {
		if k == key {
			s.cacheOrd = append(s.cacheOrd[:i], s.cacheOrd[i+1:]...)
			break
		}
	}
	s.cacheOrd = append(s.cacheOrd, key)
}

// tintTwoTone remaps img's luminance onto a gradient from black (dark
// pixels) to white (light pixels), producing the reader's two-tone page
// render.
func tintTwoTone(img image.Image, black, white [3]uint8) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			lum := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 0xffff
			out.Set(x, y, color.RGBA{
				R: lerp(black[0], white[0], lum),
				G: lerp(black[1], white[1], lum),
				B: lerp(black[2], white[2], lum),
				A: uint8(a >> 8),
			})
		}
	}
	return out
}

func lerp(from, to uint8, t float64) uint8 {
	return uint8(float64(from) + (float64(to)-float64(from))*t)
}

// encodePNG serializes img for Kitty transmission (t=d / FormatPNG). On
// encode failure (should not happen for an in-memory *image.RGBA) it
// returns nil.
func encodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}
