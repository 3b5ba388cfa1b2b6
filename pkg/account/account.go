// Package account decodes the on-chain accounts of the Pyth oracle (format
// version 2) into read-only views.
//
// Every view borrows the byte slice it was parsed from; nothing is copied,
// so the slice must not be modified or released while a view is in use.
// Parsing always validates the common header first: magic number, version,
// account type tag and declared size.
package account

// Account is one of *Mapping, *Product or *Price.
type Account interface {
	AccountType() AccountType
}

func (m *Mapping) AccountType() AccountType { return AccountTypeMapping }
func (p *Product) AccountType() AccountType { return AccountTypeProduct }
func (p *Price) AccountType() AccountType   { return AccountTypePrice }

// Parse decodes buf as whichever variant its header tag names.
func Parse(buf []byte) (Account, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return nil, err
	}

	var acc Account
	switch h.Type {
	case AccountTypeMapping:
		acc, err = ParseMapping(buf)
	case AccountTypeProduct:
		acc, err = ParseProduct(buf)
	default:
		acc, err = ParsePrice(buf)
	}
	if err != nil {
		return nil, err
	}
	return acc, nil
}
