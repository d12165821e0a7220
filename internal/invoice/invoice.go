package invoice

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"
	"voltabot/internal/catalog"
	"voltabot/internal/order"
	"voltabot/internal/pricing"

	"github.com/xuri/excelize/v2"
)

const sheet = "Invoice"

var (
	ErrIncompleteOrder = errors.New("invoice: order is incomplete")
	ErrAssetMissing    = errors.New("invoice: visual asset missing")
)

type Shop struct {
	Name    string
	Contact string
}

// Document is a rendered invoice ready to be sent as a file.
type Document struct {
	Name   string
	Number string
	Data   []byte
}

type Renderer struct {
	catalog  *catalog.Catalog
	shop     Shop
	logoPath string
	location *time.Location
	now      func() time.Time
}

func NewRenderer(cat *catalog.Catalog, shop Shop, logoPath string, loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{
		catalog:  cat,
		shop:     shop,
		logoPath: logoPath,
		location: loc,
		now:      time.Now,
	}
}

// Number derives the invoice number from the user and the issue date.
func Number(userID int64, t time.Time) string {
	return fmt.Sprintf("INV-%s-%d", t.Format("20060102"), userID)
}

func (r *Renderer) Render(d *order.Draft, displayName string, userID int64) (*Document, error) {
	const operation = "invoice.Render"

	breakdown, ok := pricing.Calculate(r.catalog, d)
	if !ok {
		return nil, ErrIncompleteOrder
	}

	issued := r.now().In(r.location)
	number := Number(userID, issued)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("%s: rename sheet: %w", operation, err)
	}

	if err := r.layoutPage(f); err != nil {
		return nil, fmt.Errorf("%s: page layout: %w", operation, err)
	}

	customer := d.CustomerName()
	if customer == "" {
		customer = displayName
	}
	phone := "-"
	if d.CustomerPhone != nil {
		phone = *d.CustomerPhone
	}

	cells := map[string]any{
		"A1":  fmt.Sprintf("فاکتور فروش | %s", r.shop.Name),
		"A2":  r.shop.Contact,
		"A3":  "شماره فاکتور",
		"B3":  number,
		"D3":  "تاریخ",
		"E3":  issued.Format("2006/01/02 15:04"),
		"A4":  "نام مشتری",
		"B4":  customer,
		"D4":  "تلفن",
		"E4":  phone,
		"A5":  "شناسه کاربر",
		"B5":  strconv.FormatInt(userID, 10),
		"A7":  "نوع سنسور",
		"B7":  "ابعاد غلاف",
		"C7":  "طول سیم (سانتی‌متر)",
		"D7":  "تعداد",
		"E7":  "قیمت کل (تومان)",
		"A8":  *d.SensorType,
		"B8":  *d.Dimensions,
		"C8":  *d.WireLengthCM,
		"D8":  *d.Quantity,
		"E8":  pricing.FormatAmount(breakdown.Total),
		"D10": "قیمت واحد",
		"E10": pricing.FormatAmount(breakdown.UnitPrice),
		"A12": "از خرید شما سپاسگزاریم. این فاکتور به صورت خودکار صادر شده است.",
	}
	for cell, value := range cells {
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return nil, fmt.Errorf("%s: set %s: %w", operation, cell, err)
		}
	}

	if err := r.style(f); err != nil {
		return nil, fmt.Errorf("%s: style: %w", operation, err)
	}

	if r.logoPath != "" {
		if err := r.addLogo(f); err != nil {
			return nil, err
		}
	}

	chartPNG, err := renderBreakdownChart(breakdown)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	if err := f.AddPictureFromBytes(sheet, "A14", &excelize.Picture{
		Extension: ".png",
		File:      chartPNG,
		Format:    &excelize.GraphicOptions{ScaleX: 0.6, ScaleY: 0.6},
	}); err != nil {
		return nil, fmt.Errorf("%s: add chart: %w", operation, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: write workbook: %w", operation, err)
	}

	return &Document{
		Name:   number + ".xlsx",
		Number: number,
		Data:   buf.Bytes(),
	}, nil
}

func (r *Renderer) layoutPage(f *excelize.File) error {
	size := 9 // A4
	orientation := "portrait"
	fitToWidth := 1
	if err := f.SetPageLayout(sheet, &excelize.PageLayoutOptions{
		Size:        &size,
		Orientation: &orientation,
		FitToWidth:  &fitToWidth,
	}); err != nil {
		return err
	}

	if err := f.SetHeaderFooter(sheet, &excelize.HeaderFooterOptions{
		OddHeader: "&C" + r.shop.Name,
		OddFooter: "&C&P / &N",
	}); err != nil {
		return err
	}

	return f.SetColWidth(sheet, "A", "E", 22)
}

func (r *Renderer) style(f *excelize.File) error {
	title, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	if err := f.MergeCell(sheet, "A1", "E1"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "E1", title); err != nil {
		return err
	}
	if err := f.MergeCell(sheet, "A2", "E2"); err != nil {
		return err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A7", "E7", header); err != nil {
		return err
	}

	return f.MergeCell(sheet, "A12", "E12")
}

func (r *Renderer) addLogo(f *excelize.File) error {
	data, err := os.ReadFile(r.logoPath)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrAssetMissing, r.logoPath)
	}
	if err != nil {
		return fmt.Errorf("invoice: read logo: %w", err)
	}

	if err := f.AddPictureFromBytes(sheet, "F1", &excelize.Picture{
		Extension: filepath.Ext(r.logoPath),
		File:      data,
		Format:    &excelize.GraphicOptions{ScaleX: 0.3, ScaleY: 0.3},
	}); err != nil {
		return fmt.Errorf("invoice: add logo: %w", err)
	}
	return nil
}
