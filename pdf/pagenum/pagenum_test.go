package pagenum

import "testing"

func TestUnknownBeforeEnoughSamples(t *testing.T) {
	tr := NewTracker()
	if tr.Known() {
		t.Fatal("expected unknown offset with no samples")
	}
	tr.Observe(Sample{PageIndex: 12, Printed: 1})
	if tr.Known() {
		t.Fatal("expected unknown offset with only one sample")
	}
}

func TestScenarioS5ContentPageJump(t *testing.T) {
	tr := NewTracker()
	tr.Observe(Sample{PageIndex: 12, Printed: 1})
	tr.Observe(Sample{PageIndex: 13, Printed: 2})

	if !tr.Known() {
		t.Fatal("expected known offset after two consistent samples")
	}

	pdfIdx, ok := tr.MapPrintedToPdf(10)
	if !ok || pdfIdx != 21 {
		t.Fatalf("expected printed 10 -> pdf 21, got %d (ok=%v)", pdfIdx, ok)
	}

	printed, ok := tr.MapPdfToPrinted(21)
	if !ok || printed != 10 {
		t.Fatalf("expected pdf 21 -> printed 10, got %d (ok=%v)", printed, ok)
	}
}

func TestMapPrintedToPdfNegativeIsNotOk(t *testing.T) {
	tr := NewTracker()
	tr.Observe(Sample{PageIndex: 12, Printed: 1})
	tr.Observe(Sample{PageIndex: 13, Printed: 2})

	if _, ok := tr.MapPrintedToPdf(-12); ok {
		t.Fatal("expected negative resulting pdf index to be rejected")
	}
}

func TestInconsistentSamplesDoNotFalselyReportKnown(t *testing.T) {
	tr := NewTracker()
	tr.Observe(Sample{PageIndex: 12, Printed: 1})
	tr.Observe(Sample{PageIndex: 50, Printed: 999}) // wildly different offset
	if tr.Known() {
		t.Fatal("expected two disagreeing samples to not establish a known offset")
	}
}
