package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary(t *testing.T) {
	data := SummaryData{
		TotalCountries: 250,
		Top: []SummaryRow{
			{Rank: 1, Name: "China", GDP: "2156785000000.00"},
			{Rank: 2, Name: "Côte d'Ivoire", GDP: "0.00"},
		},
		LastUpdated: "2025-10-22T12:00:00.000Z",
	}

	var buf bytes.Buffer
	require.NoError(t, Summary(data).Render(context.Background(), &buf))
	svg := buf.String()

	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.Contains(t, svg, `<svg width="800" height="600"`)
	assert.Contains(t, svg, ">Country Data Summary<")
	assert.Contains(t, svg, ">Total Countries: 250<")
	assert.Contains(t, svg, ">Top 5 Countries by Estimated GDP<")
	assert.Contains(t, svg, ">1. China<")
	assert.Contains(t, svg, ">$2156785000000.00<")
	assert.Contains(t, svg, ">2. Côte d&#39;Ivoire<")
	assert.Contains(t, svg, ">Last Updated: 2025-10-22T12:00:00.000Z<")
	assert.True(t, strings.HasSuffix(svg, "</svg>\n"))
}

func TestSummary_NoRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Summary(SummaryData{LastUpdated: "x"}).Render(context.Background(), &buf))

	assert.Contains(t, buf.String(), "Total Countries: 0")
	assert.NotContains(t, buf.String(), "1. ")
}
