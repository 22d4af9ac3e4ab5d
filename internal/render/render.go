// Package render draws an invoice into a paginated A4 PDF document.
package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/rezonia/invoice-generator/internal/i18n"
	"github.com/rezonia/invoice-generator/internal/layout"
	"github.com/rezonia/invoice-generator/internal/model"
	"github.com/rezonia/invoice-generator/internal/totals"
)

const (
	pageSize     = "A4"
	margin       = 15.0
	footerHeight = 8.0
	lineHeight   = 4.5
	cellPadding  = 1.5
	fontFamily   = "Helvetica"
)

// RequiredKeys are resolved before anything is drawn
var RequiredKeys = i18n.AllKeys

type column struct {
	key   string
	width float64
	align string
}

// Item table columns, 180mm in total
var columns = []column{
	{key: i18n.KeyDescription, width: 80, align: "L"},
	{key: i18n.KeyQty, width: 15, align: "C"},
	{key: i18n.KeyUnitPrice, width: 32, align: "R"},
	{key: i18n.KeyVATRate, width: 20, align: "C"},
	{key: i18n.KeyLineTotal, width: 33, align: "R"},
}

// Document is a rendered PDF
type Document struct {
	Data  []byte
	Pages int
}

// Option configures a Renderer
type Option func(*Renderer)

// WithCreationDate pins the creation date written to the document info
func WithCreationDate(t time.Time) Option {
	return func(r *Renderer) { r.created = t }
}

// WithCreator sets the producing application name
func WithCreator(name string) Option {
	return func(r *Renderer) { r.creator = name }
}

// WithCompression toggles content stream compression
func WithCompression(on bool) Option {
	return func(r *Renderer) { r.compress = on }
}

// Renderer produces invoice PDFs. It is stateless between calls.
type Renderer struct {
	creator  string
	created  time.Time
	compress bool
}

// NewRenderer creates a renderer
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{creator: "invoice-generator", compress: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render draws the invoice with the given totals and labels. Labels must be
// resolved for the invoice language.
func (r *Renderer) Render(inv *model.Invoice, t model.Totals, labels *i18n.Labels) (*Document, error) {
	if labels == nil {
		return nil, fmt.Errorf("render: no labels for language %q", inv.Language)
	}
	if labels.Language != inv.Language {
		return nil, fmt.Errorf("render: labels are for %q, invoice is %q", labels.Language, inv.Language)
	}
	if err := labels.Require(RequiredKeys...); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", pageSize, "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.SetCellMargin(cellPadding)
	pdf.SetCompression(r.compress)
	pdf.SetCatalogSort(true)
	pdf.AliasNbPages("")

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("%s %s", labels.Get(i18n.KeyInvoice), inv.Number), true)
	pdf.SetAuthor(inv.Seller.Name, true)
	pdf.SetSubject(inv.OrderNumber, true)
	pdf.SetCreator(r.creator, true)
	if !r.created.IsZero() {
		pdf.SetCreationDate(r.created)
		pdf.SetModificationDate(r.created)
	}

	pageW, pageH := pdf.GetPageSize()
	d := &document{
		pdf:    pdf,
		tr:     tr,
		inv:    inv,
		totals: t,
		labels: labels,
		left:   margin,
		width:  pageW - 2*margin,
		cursor: layout.NewCursor(pageH, margin, margin+footerHeight),
	}

	pdf.SetFooterFunc(d.drawPageFooter)
	pdf.AddPage()
	if err := d.draw(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return &Document{Data: buf.Bytes(), Pages: pdf.PageCount()}, nil
}

// document holds the state of one rendering
type document struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	cursor *layout.Cursor

	inv    *model.Invoice
	totals model.Totals
	labels *i18n.Labels

	left  float64
	width float64

	header       []string
	headerHeight float64
	rows         []tableRow
}

type tableRow struct {
	cells  [][]string
	height float64
}

func (d *document) draw() error {
	steps := []func() error{
		d.drawTitle,
		d.drawMetadata,
		d.drawAddresses,
		d.drawItems,
		d.drawTotals,
		d.drawClosing,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return d.pdf.Error()
}

// AddPage implements layout.Surface
func (d *document) AddPage() error {
	d.pdf.AddPage()
	return d.pdf.Error()
}

func (d *document) label(key string) string {
	return d.tr(d.labels.Get(key))
}

func (d *document) measure(s string) float64 {
	return d.pdf.GetStringWidth(s)
}

func (d *document) text(x, y, w float64, s, align string) {
	d.pdf.SetXY(x, y)
	d.pdf.CellFormat(w, lineHeight, s, "", 0, align, false, 0, "")
}

func (d *document) drawTitle() error {
	y, err := layout.Block(d.cursor, 20, d)
	if err != nil {
		return err
	}

	d.pdf.SetFont(fontFamily, "B", 18)
	d.pdf.SetXY(d.left, y)
	d.pdf.CellFormat(d.width, 10, d.label(i18n.KeyInvoice), "", 0, "L", false, 0, "")

	d.pdf.SetFont(fontFamily, "", 9)
	d.pdf.SetTextColor(90, 90, 90)
	d.text(d.left, y+11, d.width, d.label(i18n.KeyShippedFrom), "L")
	d.pdf.SetTextColor(0, 0, 0)
	return nil
}

func (d *document) drawMetadata() error {
	lang := d.inv.Language
	type entry struct{ key, value string }

	var entries []entry
	if !d.inv.OrderDate.IsZero() {
		entries = append(entries, entry{i18n.KeyOrderDate, i18n.FormatDate(d.inv.OrderDate, lang)})
	}
	if d.inv.OrderNumber != "" {
		entries = append(entries, entry{i18n.KeyOrderNumber, d.inv.OrderNumber})
	}
	entries = append(entries,
		entry{i18n.KeyOrderedBy, d.inv.Customer.Name},
		entry{i18n.KeySoldBy, d.inv.Seller.Name},
	)
	if !d.inv.Seller.VAT.IsZero() {
		entries = append(entries, entry{i18n.KeyVAT, d.inv.Seller.VAT.String()})
	}
	entries = append(entries,
		entry{i18n.KeyInvoiceNumber, d.inv.Number},
		entry{i18n.KeyInvoiceDate, i18n.FormatDate(d.inv.IssueDate, lang)},
	)

	const rowHeight = 5.5
	y, err := layout.Block(d.cursor, float64(len(entries))*rowHeight+4, d)
	if err != nil {
		return err
	}

	labelW := 45.0
	for i, e := range entries {
		ry := y + float64(i)*rowHeight
		d.pdf.SetFont(fontFamily, "B", 9)
		d.text(d.left, ry, labelW, d.label(e.key), "L")
		d.pdf.SetFont(fontFamily, "", 9)
		d.text(d.left+labelW, ry, d.width-labelW, d.tr(e.value), "L")
	}
	return nil
}

type styledLine struct {
	text string
	bold bool
}

func (d *document) partyLines(titleKey string, p model.Party, withVAT bool, width float64) []styledLine {
	lines := []styledLine{{text: d.label(titleKey), bold: true}}

	d.pdf.SetFont(fontFamily, "", 9)
	body := append([]string{p.Name}, p.AddressLines...)
	if p.Country != "" {
		body = append(body, p.Country)
	}
	if withVAT && !p.VAT.IsZero() {
		body = append(body, fmt.Sprintf("%s %s", d.labels.Get(i18n.KeyVAT), p.VAT.String()))
	}
	for _, s := range body {
		for _, l := range wrap(d.tr(s), width-2*cellPadding, d.measure) {
			lines = append(lines, styledLine{text: l})
		}
	}
	return lines
}

func (d *document) drawAddresses() error {
	colW := d.width / 2

	left := d.partyLines(i18n.KeyBillingAddress, d.inv.Customer, false, colW)
	right := d.partyLines(i18n.KeyShippingAddress, d.inv.Customer, false, colW)

	if !d.inv.Commercial.IsZero() {
		left = append(left, styledLine{})
		left = append(left, d.partyLines(i18n.KeyCommercialAddress, d.inv.Commercial, true, colW)...)
	}
	right = append(right, styledLine{})
	right = append(right, d.partyLines(i18n.KeySoldBy, d.inv.Seller, true, colW)...)

	heights := make([]float64, max(len(left), len(right)))
	for i := range heights {
		heights[i] = lineHeight
	}

	// long pasted addresses continue on the next page
	_, err := layout.Flow(d.cursor, heights, lineFlow{d, func(i int, y float64) {
		if i < len(left) {
			d.drawLine(d.left, y, colW, left[i])
		}
		if i < len(right) {
			d.drawLine(d.left+colW, y, colW, right[i])
		}
	}})
	if err != nil {
		return err
	}
	d.cursor.Advance(6)
	return nil
}

// lineFlow draws the lines of a block handed out by layout.Flow
type lineFlow struct {
	*document
	draw func(index int, y float64)
}

// DrawLine implements layout.LineSurface
func (f lineFlow) DrawLine(index int, y float64) error {
	f.draw(index, y)
	return f.pdf.Error()
}

func (d *document) drawLine(x, y, w float64, l styledLine) {
	style := ""
	if l.bold {
		style = "B"
	}
	d.pdf.SetFont(fontFamily, style, 9)
	d.text(x, y, w, l.text, "L")
}

func (d *document) drawItems() error {
	lang := d.inv.Language
	cur := d.inv.Currency

	d.pdf.SetFont(fontFamily, "B", 8)
	headerLines := 1
	headers := make([][]string, len(columns))
	for i, col := range columns {
		headers[i] = wrap(d.label(col.key), col.width-2*cellPadding, d.measure)
		if len(headers[i]) > headerLines {
			headerLines = len(headers[i])
		}
	}
	d.header = d.header[:0]
	for _, h := range headers {
		d.header = append(d.header, strings.Join(h, "\n"))
	}
	d.headerHeight = float64(headerLines)*lineHeight + 2*cellPadding

	rate := d.inv.VATRate
	if !d.inv.VATApplies {
		rate = decimal.Zero
	}
	ratePct := d.tr(i18n.FormatPercent(rate, lang))

	d.pdf.SetFont(fontFamily, "", 8)
	d.rows = d.rows[:0]
	for _, item := range d.inv.Items {
		desc := wrap(d.tr(item.Description), columns[0].width-2*cellPadding, d.measure)
		if item.ASIN != "" {
			desc = append(desc, d.tr(fmt.Sprintf("%s: %s", d.labels.Get(i18n.KeyASIN), item.ASIN)))
		}
		d.addRow(desc,
			fmt.Sprintf("%d", item.Quantity),
			d.tr(i18n.FormatMoney(item.UnitPrice, cur, lang)),
			ratePct,
			d.tr(i18n.FormatMoney(totals.LineTotal(item, cur), cur, lang)),
		)
	}
	if !d.totals.Shipping.IsZero() {
		d.addRow([]string{d.label(i18n.KeyDelivery)}, "", "", ratePct,
			d.tr(i18n.FormatMoney(d.totals.Shipping, cur, lang)))
	}
	if !d.totals.Discount.IsZero() {
		d.addRow([]string{d.label(i18n.KeyDiscount)}, "", "", "",
			d.tr(i18n.FormatMoney(d.totals.Discount.Neg(), cur, lang)))
	}

	heights := make([]float64, len(d.rows))
	for i, row := range d.rows {
		heights[i] = row.height
	}

	_, err := layout.Paginate(d.cursor, layout.Table{HeaderHeight: d.headerHeight, RowHeights: heights}, d)
	if err != nil {
		return fmt.Errorf("item table: %w", err)
	}
	d.cursor.Advance(4)
	return nil
}

func (d *document) addRow(desc []string, cells ...string) {
	row := tableRow{cells: [][]string{desc}}
	for _, c := range cells {
		row.cells = append(row.cells, []string{c})
	}
	row.height = float64(len(desc))*lineHeight + 2*cellPadding
	d.rows = append(d.rows, row)
}

// DrawHeader implements layout.TableSurface
func (d *document) DrawHeader(y float64) error {
	d.pdf.SetFont(fontFamily, "B", 8)
	d.pdf.SetFillColor(230, 230, 230)
	d.pdf.SetDrawColor(160, 160, 160)
	x := d.left
	for i, col := range columns {
		d.pdf.Rect(x, y, col.width, d.headerHeight, "FD")
		d.pdf.SetXY(x, y+cellPadding)
		d.pdf.MultiCell(col.width, lineHeight, d.header[i], "", col.align, false)
		x += col.width
	}
	return d.pdf.Error()
}

// DrawRow implements layout.TableSurface
func (d *document) DrawRow(index int, y float64) error {
	row := d.rows[index]

	d.pdf.SetFont(fontFamily, "", 8)
	d.pdf.SetDrawColor(160, 160, 160)
	x := d.left
	for i, col := range columns {
		d.pdf.Rect(x, y, col.width, row.height, "D")
		for j, line := range row.cells[i] {
			d.text(x, y+cellPadding+float64(j)*lineHeight, col.width, line, col.align)
		}
		x += col.width
	}
	return d.pdf.Error()
}

func (d *document) drawTotals() error {
	lang := d.inv.Language
	cur := d.inv.Currency
	type entry struct {
		label string
		value string
	}

	entries := []entry{{d.label(i18n.KeySubtotal), i18n.FormatMoney(d.totals.Subtotal, cur, lang)}}
	if !d.totals.Discount.IsZero() {
		entries = append(entries, entry{d.label(i18n.KeyDiscount), i18n.FormatMoney(d.totals.Discount.Neg(), cur, lang)})
	}
	entries = append(entries, entry{d.label(i18n.KeyShipping), i18n.FormatMoney(d.totals.Shipping, cur, lang)})
	if d.inv.VATApplies {
		label := fmt.Sprintf("%s (%s)", d.labels.Get(i18n.KeyVATAmount), i18n.FormatPercent(d.inv.VATRate, lang))
		entries = append(entries, entry{d.tr(label), i18n.FormatMoney(d.totals.VAT, cur, lang)})
	}

	const rowHeight = 6.0
	h := float64(len(entries)+1)*rowHeight + 6
	y, err := layout.Block(d.cursor, h, d)
	if err != nil {
		return err
	}

	boxW, valueW := 95.0, 35.0
	x := d.left + d.width - boxW
	d.pdf.SetFont(fontFamily, "", 9)
	for i, e := range entries {
		ry := y + float64(i)*rowHeight
		d.pdf.SetXY(x, ry)
		d.pdf.CellFormat(boxW-valueW, rowHeight, e.label, "", 0, "L", false, 0, "")
		d.pdf.CellFormat(valueW, rowHeight, d.tr(e.value), "", 0, "R", false, 0, "")
	}

	ty := y + float64(len(entries))*rowHeight
	d.pdf.SetFont(fontFamily, "B", 10)
	d.pdf.SetFillColor(230, 230, 230)
	d.pdf.SetXY(x, ty)
	d.pdf.CellFormat(boxW-valueW, rowHeight, d.label(i18n.KeyTotal), "T", 0, "L", true, 0, "")
	d.pdf.CellFormat(valueW, rowHeight, d.tr(i18n.FormatMoney(d.totals.GrandTotal, cur, lang)), "T", 0, "R", true, 0, "")
	return nil
}

func (d *document) drawClosing() error {
	d.pdf.SetFont(fontFamily, "", 8)

	var lines []styledLine
	if d.inv.PaymentReference != "" {
		lines = append(lines, styledLine{
			text: d.tr(fmt.Sprintf("%s: %s", d.labels.Get(i18n.KeyPaymentReference), d.inv.PaymentReference)),
			bold: true,
		})
	}
	for _, l := range wrap(d.label(i18n.KeyCustomerService), d.width-2*cellPadding, d.measure) {
		lines = append(lines, styledLine{text: l})
	}
	legal := wrap(d.label(i18n.KeyLegal), d.width-2*cellPadding, d.measure)

	h := float64(len(lines)+len(legal))*lineHeight + 4
	y, err := layout.Block(d.cursor, h, d)
	if err != nil {
		return err
	}

	for i, l := range lines {
		style := ""
		if l.bold {
			style = "B"
		}
		d.pdf.SetFont(fontFamily, style, 8)
		d.text(d.left, y+float64(i)*lineHeight, d.width, l.text, "L")
	}

	ly := y + float64(len(lines))*lineHeight + 2
	d.pdf.SetDrawColor(160, 160, 160)
	d.pdf.Line(d.left, ly, d.left+d.width, ly)
	d.pdf.SetFont(fontFamily, "I", 7)
	d.pdf.SetTextColor(90, 90, 90)
	for i, l := range legal {
		d.text(d.left, ly+1+float64(i)*lineHeight, d.width, l, "L")
	}
	d.pdf.SetTextColor(0, 0, 0)
	return nil
}

func (d *document) drawPageFooter() {
	d.pdf.SetY(-(margin + footerHeight - 2))
	d.pdf.SetFont(fontFamily, "", 7)
	d.pdf.SetTextColor(90, 90, 90)
	d.pdf.SetX(d.left)
	d.pdf.CellFormat(d.width/2, lineHeight, d.tr(d.inv.Number), "", 0, "L", false, 0, "")
	page := fmt.Sprintf("%s %d/{nb}", d.labels.Get(i18n.KeyPage), d.pdf.PageNo())
	d.pdf.CellFormat(d.width/2, lineHeight, d.tr(page), "", 0, "R", false, 0, "")
	d.pdf.SetTextColor(0, 0, 0)
}
