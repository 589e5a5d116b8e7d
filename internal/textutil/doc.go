// Package textutil provides text normalization for extracted content.
//
// Raw text pulled out of HTML, OCR output, and PDF extraction carries control
// characters, decorative symbols, and irregular whitespace that add noise to
// both the stored artifacts and the language-model prompt. Clean reduces all
// of it to plain, single-spaced text.
package textutil
