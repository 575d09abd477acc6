// Package core provides the catalog and pricing logic of craftcatalog.
//
// This package holds all domain logic independent of any UI or file format.
// It can be driven by the terminal editor, the CLI commands, or tests without
// modification. The only I/O it performs goes through the [Storage] interface.
//
// # Architecture
//
// The package is organized around a few key concepts:
//
//   - Schema: an [Item] is the typed form of one catalog row, with a fixed
//     array of recipe slots. A [Sheet] is the untyped table a [Storage]
//     reads and writes.
//   - Recipes: [ParseRecipe] turns one slot such as "x3 - Tejido coralino"
//     into a [RecipeLine] whose Key joins against the [PriceTable].
//   - Pricing: [EffectivePackPrices] fills missing pack tiers from the others,
//     and [FabricationCost] greedily decomposes a quantity into packs.
//   - Enrichment: [Enrich] computes fabrication_price, avg_fabrication_price
//     and error for every row, never failing on bad input.
//   - Filtering: a [Pipeline] holds named filters that are ANDed together and
//     always applied to the full table.
//   - Session: a [Manager] owns the full table, the filtered subset and the
//     price table for one editing session.
//
// # Editing Flow
//
//  1. [Manager.Open] loads the catalog and prices, then enriches
//  2. [Manager.SetFilter] narrows the subset
//  3. [Manager.ApplyEdit] changes subset cells only
//  4. [Manager.Save] merges the subset back by row index, re-enriches and
//     writes the original columns
//
// # Error Handling
//
// Recipe and price problems never abort enrichment. They are collected per row
// in the error column. Storage failures are returned to the caller. Messages
// for the terminal UI come from [MapError]:
//
//   - REC001: malformed recipe line
//   - PRC001-PRC004: missing or unusable price data
//   - STO001-STO004: storage errors
//   - FLT001: unknown filter
//   - EDT001-EDT003: rejected edits
package core
