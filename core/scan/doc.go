// Package scan locates balanced JSON object regions inside free-form text.
//
// Language models routinely surround a structured payload with prose, and
// the payload itself may contain string values holding brace characters.
// [FindBalancedObject] walks the text once, counting braces only outside
// double-quoted strings and honouring backslash escapes, so that the region
// it returns ends at the payload's true closing brace. [LastClosingBrace]
// is the low-confidence companion used when a stream was truncated and no
// balanced region exists.
package scan
