// Package printing renders invoice documents to PDF.
//
// A Document is an ordered list of blocks. The Renderer turns it into HTML
// with a fixed stylesheet, hands the HTML to an Engine (headless Chrome via
// chromedp, or the wkhtmltopdf binary) and captures the PDF through a
// temporary file that only lives for the duration of the call:
//
//	engine, err := printing.NewEngine(cfg.Printing, logger)
//	if err != nil {
//	    engine = printing.UnavailableEngine(err)
//	}
//	renderer, err := printing.NewRenderer(engine, printing.RendererConfig{
//	    OutputDir:   cfg.Printing.OutputDir,
//	    Timeout:     cfg.Printing.Timeout,
//	    DefaultFont: cfg.Printing.DefaultFont,
//	}, logger)
//
//	pdf, err := renderer.Render(ctx, doc, uuid.New().String())
package printing
