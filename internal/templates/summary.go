package templates

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// SummaryRow is one ranked line of the summary image
type SummaryRow struct {
	Rank int
	Name string
	GDP  string
}

// SummaryData is everything the summary image displays
type SummaryData struct {
	TotalCountries int
	Top            []SummaryRow
	LastUpdated    string
}

const (
	summaryWidth  = 800
	summaryHeight = 600
	rowStartY     = 240
	rowSpacing    = 50
	fontFamily    = "Arial, sans-serif"
)

// Summary renders the fixed-layout SVG summary card
func Summary(data SummaryData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b bytes.Buffer

		fmt.Fprintf(&b, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
		fmt.Fprintf(&b, "<svg width=\"%d\" height=\"%d\" xmlns=\"http://www.w3.org/2000/svg\">\n", summaryWidth, summaryHeight)
		fmt.Fprintf(&b, "  <rect width=\"%d\" height=\"%d\" fill=\"#f8f9fa\"/>\n", summaryWidth, summaryHeight)

		text(&b, 400, 60, 32, "bold", "middle", "#212529", "Country Data Summary")
		text(&b, 400, 120, 24, "", "middle", "#495057", fmt.Sprintf("Total Countries: %d", data.TotalCountries))
		text(&b, 400, 180, 20, "bold", "middle", "#212529", "Top 5 Countries by Estimated GDP")

		for i, row := range data.Top {
			y := rowStartY + i*rowSpacing
			text(&b, 100, y, 18, "", "", "#495057", fmt.Sprintf("%d. %s", row.Rank, row.Name))
			text(&b, 500, y, 18, "", "", "#6c757d", "$"+row.GDP)
		}

		text(&b, 400, 540, 16, "", "middle", "#6c757d", "Last Updated: "+data.LastUpdated)
		b.WriteString("</svg>\n")

		_, err := w.Write(b.Bytes())
		return err
	})
}

// text writes one escaped <text> element
func text(b *bytes.Buffer, x, y, size int, weight, anchor, fill, content string) {
	fmt.Fprintf(b, "  <text x=\"%d\" y=\"%d\" font-family=\"%s\" font-size=\"%d\"", x, y, fontFamily, size)
	if weight != "" {
		fmt.Fprintf(b, " font-weight=\"%s\"", weight)
	}
	if anchor != "" {
		fmt.Fprintf(b, " text-anchor=\"%s\"", anchor)
	}
	fmt.Fprintf(b, " fill=\"%s\">%s</text>\n", fill, templ.EscapeString(content))
}
