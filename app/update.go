package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/bugzmanov/bookokrat/pdf/convert"
	"github.com/bugzmanov/bookokrat/pdf/render"
)

// Update is the bubbletea event loop's single entry point: it routes
// terminal resize, keypresses and the three asynchronous PDF pipeline
// messages to the handler for whichever document kind is currently open.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.kind == docEpub && m.textReader != nil {
			_ = m.loadChapter(m.chapterIdx, false)
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case renderResultMsg:
		return m, m.handleRenderResult(render.Result(msg))

	case convertFrameMsg:
		return m, m.handleConvertFrame(convert.RenderedFrame(msg))

	case convertPlanMsg:
		return m, m.handleConvertPlan(convert.Plan(msg))
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.pendingSeq != nil {
		seq := m.pendingSeq
		m.pendingSeq = nil
		seq.apply(msg.String())
		return nil
	}
	switch m.kind {
	case docPdf:
		return m.handlePdfKey(msg)
	default:
		return m.handleEpubKey(msg)
	}
}
