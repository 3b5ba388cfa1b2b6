package cli

import (
	"fmt"
	"io"

	"github.com/LeJamon/goPyth/pkg/account"
	"github.com/LeJamon/goPyth/pkg/priceconf"
	"github.com/LeJamon/goPyth/pkg/traverse"
)

// Views are the structured shapes printed by the commands. Field names
// follow the on-chain layout; decimal strings are added for humans.

type attributeView struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type priceInfoView struct {
	Price      int64  `json:"price"`
	Conf       uint64 `json:"conf"`
	Value      string `json:"value"`
	Status     string `json:"status"`
	CorpAction string `json:"corp_action"`
	PubSlot    uint64 `json:"pub_slot"`
}

type emaView struct {
	Val   int64  `json:"val"`
	Numer int64  `json:"numer"`
	Denom int64  `json:"denom"`
	Value string `json:"value"`
}

type componentView struct {
	Publisher string        `json:"publisher"`
	Aggregate priceInfoView `json:"aggregate"`
	Latest    priceInfoView `json:"latest"`
}

type priceView struct {
	Key           string          `json:"key"`
	Product       string          `json:"product"`
	Type          string          `json:"type"`
	Exponent      int32           `json:"exponent"`
	NumComponents uint32          `json:"num_components"`
	NumQuoters    uint32          `json:"num_quoters"`
	LastSlot      uint64          `json:"last_slot"`
	ValidSlot     uint64          `json:"valid_slot"`
	TWAP          emaView         `json:"twap"`
	TWAC          emaView         `json:"twac"`
	PrevSlot      uint64          `json:"prev_slot"`
	PrevPrice     int64           `json:"prev_price"`
	PrevConf      uint64          `json:"prev_conf"`
	Aggregate     priceInfoView   `json:"aggregate"`
	Next          string          `json:"next,omitempty"`
	Components    []componentView `json:"components"`
}

type productView struct {
	Key           string          `json:"key"`
	Symbol        string          `json:"symbol"`
	AssetType     string          `json:"asset_type"`
	QuoteCurrency string          `json:"quote_currency"`
	PriceAccount  string          `json:"price_account,omitempty"`
	Attributes    []attributeView `json:"attributes"`
}

type mappingView struct {
	Key      string   `json:"key"`
	Next     string   `json:"next,omitempty"`
	Products []string `json:"products"`
}

type entryView struct {
	Mapping string      `json:"mapping"`
	Product productView `json:"product"`
	Price   *priceView  `json:"price,omitempty"`
}

func optionalKey(k account.Key, ok bool) string {
	if !ok {
		return ""
	}
	return k.String()
}

func newPriceInfoView(pi account.PriceInfo, expo int32) priceInfoView {
	return priceInfoView{
		Price:      pi.Price,
		Conf:       pi.Conf,
		Value:      priceconf.PriceConf{Price: pi.Price, Conf: pi.Conf, Expo: expo}.String(),
		Status:     pi.Status.String(),
		CorpAction: pi.CorpAction.String(),
		PubSlot:    pi.PubSlot,
	}
}

func newEmaView(e account.Ema, expo int32) emaView {
	return emaView{
		Val:   e.Val,
		Numer: e.Numer,
		Denom: e.Denom,
		Value: priceconf.PriceConf{Price: e.Val, Expo: expo}.Decimal().String(),
	}
}

func newPriceView(key account.Key, p *account.Price) *priceView {
	expo := p.Exponent()
	v := &priceView{
		Key:           key.String(),
		Product:       p.Product().String(),
		Type:          p.PriceType().String(),
		Exponent:      expo,
		NumComponents: p.NumComponents(),
		NumQuoters:    p.NumQuoters(),
		LastSlot:      p.LastSlot(),
		ValidSlot:     p.ValidSlot(),
		TWAP:          newEmaView(p.TWAP(), expo),
		TWAC:          newEmaView(p.TWAC(), expo),
		PrevSlot:      p.PrevSlot(),
		PrevPrice:     p.PrevPrice(),
		PrevConf:      p.PrevConf(),
		Aggregate:     newPriceInfoView(p.Aggregate(), expo),
		Next:          optionalKey(p.Next()),
		Components:    []componentView{},
	}
	for _, c := range p.Components() {
		if !c.Active() {
			continue
		}
		v.Components = append(v.Components, componentView{
			Publisher: c.Publisher.String(),
			Aggregate: newPriceInfoView(c.Aggregate, expo),
			Latest:    newPriceInfoView(c.Latest, expo),
		})
	}
	return v
}

func newProductView(key account.Key, p *account.Product) productView {
	v := productView{
		Key:           key.String(),
		Symbol:        p.Symbol(),
		AssetType:     p.AssetType(),
		QuoteCurrency: p.QuoteCurrency(),
		PriceAccount:  optionalKey(p.PriceAccount()),
		Attributes:    []attributeView{},
	}
	for k, val := range p.Attributes() {
		v.Attributes = append(v.Attributes, attributeView{Key: k, Value: val})
	}
	return v
}

func newMappingView(key account.Key, m *account.Mapping) mappingView {
	v := mappingView{
		Key:      key.String(),
		Next:     optionalKey(m.Next()),
		Products: make([]string, 0, m.NumProducts()),
	}
	for _, k := range m.Products() {
		v.Products = append(v.Products, k.String())
	}
	return v
}

func newEntryView(e traverse.Entry) entryView {
	v := entryView{
		Mapping: e.MappingKey.String(),
		Product: newProductView(e.ProductKey, e.Product),
	}
	if e.Price != nil {
		v.Price = newPriceView(e.PriceKey, e.Price)
	}
	return v
}

// writeText renders one tab separated row per entry.
func (v entryView) writeText(w io.Writer) error {
	price, status := "-", "-"
	if v.Price != nil {
		price, status = v.Price.Aggregate.Value, v.Price.Aggregate.Status
	}
	_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", v.Product.Symbol, price, status, v.Product.Key)
	return err
}

func (v *priceView) writeText(w io.Writer) error {
	rows := [][2]string{
		{"key", v.Key},
		{"product", v.Product},
		{"type", v.Type},
		{"exponent", fmt.Sprint(v.Exponent)},
		{"price", v.Aggregate.Value},
		{"status", v.Aggregate.Status},
		{"corp action", v.Aggregate.CorpAction},
		{"publish slot", fmt.Sprint(v.Aggregate.PubSlot)},
		{"valid slot", fmt.Sprint(v.ValidSlot)},
		{"twap", v.TWAP.Value},
		{"twac", v.TWAC.Value},
		{"quoters", fmt.Sprintf("%d/%d", v.NumQuoters, v.NumComponents)},
	}
	if v.Next != "" {
		rows = append(rows, [2]string{"next", v.Next})
	}
	for _, c := range v.Components {
		rows = append(rows, [2]string{"publisher " + c.Publisher, c.Latest.Value + " " + c.Latest.Status})
	}
	return writeRows(w, rows)
}

func (v productView) writeText(w io.Writer) error {
	rows := [][2]string{
		{"key", v.Key},
		{"price account", v.PriceAccount},
	}
	for _, a := range v.Attributes {
		rows = append(rows, [2]string{a.Key, a.Value})
	}
	return writeRows(w, rows)
}

func (v mappingView) writeText(w io.Writer) error {
	rows := [][2]string{
		{"key", v.Key},
		{"next", v.Next},
		{"products", fmt.Sprint(len(v.Products))},
	}
	for i, k := range v.Products {
		rows = append(rows, [2]string{fmt.Sprintf("product %d", i), k})
	}
	return writeRows(w, rows)
}

func writeRows(w io.Writer, rows [][2]string) error {
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%s:\t%s\n", r[0], r[1]); err != nil {
			return err
		}
	}
	return nil
}

type statsView struct {
	Products int `json:"products"`
	Prices   int `json:"prices"`
	Skipped  int `json:"skipped"`
}

func (v statsView) writeText(w io.Writer) error {
	return writeRows(w, [][2]string{
		{"products", fmt.Sprint(v.Products)},
		{"prices", fmt.Sprint(v.Prices)},
		{"skipped", fmt.Sprint(v.Skipped)},
	})
}
