package export

import (
	"strconv"
	"strings"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Tables are keyed by base58 account addresses. Unsigned on-chain values
// are stored in BIGINT columns and must fit in int64.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		product_key TEXT PRIMARY KEY,
		mapping_key TEXT NOT NULL,
		symbol TEXT NOT NULL,
		asset_type TEXT NOT NULL,
		quote_currency TEXT NOT NULL,
		price_key TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS product_attributes (
		product_key TEXT NOT NULL,
		position INTEGER NOT NULL,
		attr_key TEXT NOT NULL,
		attr_value TEXT NOT NULL,
		PRIMARY KEY (product_key, position)
	)`,
	`CREATE TABLE IF NOT EXISTS prices (
		price_key TEXT PRIMARY KEY,
		product_key TEXT NOT NULL,
		price_type TEXT NOT NULL,
		exponent INTEGER NOT NULL,
		num_components INTEGER NOT NULL,
		num_quoters INTEGER NOT NULL,
		last_slot BIGINT NOT NULL,
		valid_slot BIGINT NOT NULL,
		twap BIGINT NOT NULL,
		twac BIGINT NOT NULL,
		prev_slot BIGINT NOT NULL,
		prev_price BIGINT NOT NULL,
		prev_conf BIGINT NOT NULL,
		agg_price BIGINT NOT NULL,
		agg_conf BIGINT NOT NULL,
		agg_status TEXT NOT NULL,
		agg_corp_act TEXT NOT NULL,
		agg_pub_slot BIGINT NOT NULL,
		next_key TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS price_components (
		price_key TEXT NOT NULL,
		position INTEGER NOT NULL,
		publisher TEXT NOT NULL,
		agg_price BIGINT NOT NULL,
		agg_conf BIGINT NOT NULL,
		agg_status TEXT NOT NULL,
		agg_pub_slot BIGINT NOT NULL,
		latest_price BIGINT NOT NULL,
		latest_conf BIGINT NOT NULL,
		latest_status TEXT NOT NULL,
		latest_pub_slot BIGINT NOT NULL,
		PRIMARY KEY (price_key, position)
	)`,
	`CREATE INDEX IF NOT EXISTS prices_product_key ON prices (product_key)`,
}

const upsertProduct = `INSERT INTO products
	(product_key, mapping_key, symbol, asset_type, quote_currency, price_key)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (product_key) DO UPDATE SET
		mapping_key = excluded.mapping_key,
		symbol = excluded.symbol,
		asset_type = excluded.asset_type,
		quote_currency = excluded.quote_currency,
		price_key = excluded.price_key`

const deleteAttributes = `DELETE FROM product_attributes WHERE product_key = ?`

const insertAttribute = `INSERT INTO product_attributes
	(product_key, position, attr_key, attr_value) VALUES (?, ?, ?, ?)`

const upsertPrice = `INSERT INTO prices
	(price_key, product_key, price_type, exponent, num_components, num_quoters,
	 last_slot, valid_slot, twap, twac, prev_slot, prev_price, prev_conf,
	 agg_price, agg_conf, agg_status, agg_corp_act, agg_pub_slot, next_key)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (price_key) DO UPDATE SET
		product_key = excluded.product_key,
		price_type = excluded.price_type,
		exponent = excluded.exponent,
		num_components = excluded.num_components,
		num_quoters = excluded.num_quoters,
		last_slot = excluded.last_slot,
		valid_slot = excluded.valid_slot,
		twap = excluded.twap,
		twac = excluded.twac,
		prev_slot = excluded.prev_slot,
		prev_price = excluded.prev_price,
		prev_conf = excluded.prev_conf,
		agg_price = excluded.agg_price,
		agg_conf = excluded.agg_conf,
		agg_status = excluded.agg_status,
		agg_corp_act = excluded.agg_corp_act,
		agg_pub_slot = excluded.agg_pub_slot,
		next_key = excluded.next_key`

const deleteComponents = `DELETE FROM price_components WHERE price_key = ?`

const insertComponent = `INSERT INTO price_components
	(price_key, position, publisher, agg_price, agg_conf, agg_status, agg_pub_slot,
	 latest_price, latest_conf, latest_status, latest_pub_slot)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// rebind rewrites ? placeholders into the driver's syntax.
func rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] != '?' {
			b.WriteByte(query[i])
			continue
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}
