// Package beancount provides the normalized double-entry ledger model behind
// the blc command-line tool: directives, postings, amounts with exact decimal
// arithmetic, historical price lookup, and JSONL persistence.
//
// The core functionalities include:
//   - Ledger Management: an always-chronological record of transactions,
//     prices, commodity declarations and account opens/closes.
//   - Price History: a queryable table of historical rates built from the
//     ledger's price directives, used for point-in-time FX conversion.
//   - Account Naming: consistent derivation of cash, asset, income and
//     expense account paths for a brokerage account, plus automatic creation
//     of ancillary accounts from open-directive metadata.
//   - Data Persistence: encoding and decoding of ledgers to and from a
//     human-readable, version-controllable JSONL format.
//
// The cgt subpackage consumes this model to compute UK Capital Gains Tax
// under Section 104 pooling.
package beancount
