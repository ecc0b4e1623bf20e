// Package app is the reader shell: the bubbletea program that owns terminal
// I/O and wires the EPUB and PDF state machines (textreader.Reader,
// pdfreader.Reader) to real rendering, persistence and the keyboard. Neither
// reader package touches a terminal or a channel; app is where their Intent
// and mutation methods get reconciled against reflow/layout, the PDF
// render/convert pipeline, bookmarks and the annotation store.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/bugzmanov/bookokrat/annotation"
	"github.com/bugzmanov/bookokrat/bookmark"
	"github.com/bugzmanov/bookokrat/common"
	"github.com/bugzmanov/bookokrat/config"
	"github.com/bugzmanov/bookokrat/epub"
	"github.com/bugzmanov/bookokrat/pdf/convert"
	"github.com/bugzmanov/bookokrat/pdf/page"
	"github.com/bugzmanov/bookokrat/pdf/render"
	"github.com/bugzmanov/bookokrat/pdfreader"
	"github.com/bugzmanov/bookokrat/search"
	"github.com/bugzmanov/bookokrat/state"
	"github.com/bugzmanov/bookokrat/textreader"
)

// docKind discriminates which reading engine a Model is currently driving.
type docKind int

const (
	docEpub docKind = iota
	docPdf
)

// overlay discriminates a full-screen modal drawn over the current page,
// one of the dialogs the status/command line can open.
type overlay int

const (
	overlayNone overlay = iota
	overlayTOC
	overlayHelp
)

// Model is the bubbletea program state for one open book. Exactly one of
// the epub or pdf fields is live, selected by kind.
type Model struct {
	ctx context.Context
	env *state.LocalEnv

	width, height int
	theme         common.Theme

	kind docKind
	path string

	// EPUB
	book           *epub.Book
	chapterIdx     int
	textReader     *textreader.Reader
	chapterDoc     *reflowedLines
	searchEng      *search.Engine
	dumpedChapters map[string]bool

	// PDF
	pdfReader *pdfreader.Reader
	pdfKeySeq pdfreader.KeySeq
	renderSvc *render.Service
	converter *convert.Converter
	cancelPdf context.CancelFunc
	frames      map[int]*convert.RenderedFrame
	descriptors map[int]*page.Descriptor
	pageTexts   map[int]string
	lastPlan    convert.Plan

	bookmarks   *bookmark.Store
	annotations *annotation.Store

	overlay overlay
	tocSel  int

	cmdline     string
	cmdlineOpen bool

	// pendingSeq holds an in-progress two-key sequence ("gg", "yiw", ...):
	// the first key's handler stashes a continuation here instead of
	// blocking, and the next KeyMsg resolves it before normal dispatch.
	pendingSeq *pendingKeySeq
	clipboard  string

	quitting bool
	fatalErr error
}

// New opens path (an EPUB or PDF file, chosen by extension) and returns a
// ready Model. It does not start terminal I/O; call it from main before
// handing the result to tea.NewProgram.
func New(ctx context.Context, path string) (*Model, error) {
	env := state.EnvFromContext(ctx)
	m := &Model{
		ctx:         ctx,
		env:         env,
		path:        path,
		theme:       common.DefaultTheme(),
		width:       80,
		height:      24,
		frames:         make(map[int]*convert.RenderedFrame),
		descriptors:    make(map[int]*page.Descriptor),
		pageTexts:      make(map[int]string),
		dumpedChapters: make(map[string]bool),
		bookmarks:   bookmark.NewStore(bookmarkPath(env), env.Log),
		annotations: annotation.NewStore(annotationDir(env), env.Log),
	}
	if err := m.bookmarks.Load(); err != nil && env.Log != nil {
		env.Log.Warn("loading bookmarks", zap.Error(err))
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	m.path = absPath
	if err := m.annotations.Load(absPath); err != nil && env.Log != nil {
		env.Log.Warn("loading annotations", zap.Error(err))
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		m.kind = docPdf
		if err := m.openPDF(absPath); err != nil {
			return nil, err
		}
	default:
		m.kind = docEpub
		if err := m.openEPUB(absPath); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func bookmarkPath(env *state.LocalEnv) string {
	if env.Cfg != nil && len(env.Cfg.Logging.FileLogger.Destination) > 0 {
		return filepath.Join(filepath.Dir(env.Cfg.Logging.FileLogger.Destination), "bookmarks.json")
	}
	return "bookmarks.json"
}

func annotationDir(env *state.LocalEnv) string {
	if env.Cfg != nil && len(env.Cfg.Logging.FileLogger.Destination) > 0 {
		return filepath.Join(filepath.Dir(env.Cfg.Logging.FileLogger.Destination), "annotations")
	}
	return "annotations"
}

// Init starts any background work the reader needs before its first draw:
// the PDF worker pool and converter, when the open document is a PDF.
func (m *Model) Init() tea.Cmd {
	if m.kind != docPdf {
		return nil
	}
	return tea.Batch(listenRenderResults(m.renderSvc), listenConvertFrames(m.converter), listenConvertPlans(m.converter))
}

func (m *Model) readerConfig() config.ReaderConfig {
	if m.env.Cfg != nil {
		return m.env.Cfg.Reader
	}
	return config.DefaultConfig().Reader
}

// flushPersistence forces a bookmark disk write regardless of the throttle
// window, cancels any in-flight PDF work and closes the render service.
func (m *Model) flushPersistence() {
	if err := m.bookmarks.Flush(); err != nil && m.env.Log != nil {
		m.env.Log.Warn("flushing bookmarks", zap.Error(err))
	}
	if m.cancelPdf != nil {
		m.cancelPdf()
	}
	if m.renderSvc != nil {
		_ = m.renderSvc.Close()
	}
}

func (m *Model) setErrorHUD(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	now := time.Now()
	switch m.kind {
	case docEpub:
		if m.textReader != nil {
			m.textReader.SetErrorHUD(msg, now)
		}
	case docPdf:
		if m.pdfReader != nil {
			m.pdfReader.SetErrorHUD(msg, now)
		}
	}
	if m.env.Log != nil {
		m.env.Log.Warn(msg)
	}
}
