package compiler

import "gosap/pkg/asm"

// Compile translates toy-language source into SAP-1 assembly text and the
// machine bytes produced by assembling it. When assembly of the generated
// text fails the text is still returned so callers can show it.
func Compile(src string) (string, []byte, error) {
	tokens, err := Lex(src)
	if err != nil {
		return "", nil, err
	}

	stmts, err := Parse(tokens)
	if err != nil {
		return "", nil, err
	}

	syms := NewSymbolTable()
	assembly, err := Generate(stmts, syms)
	if err != nil {
		return "", nil, err
	}

	code, _, err := asm.Assemble(assembly)
	if err != nil {
		return assembly, nil, err
	}
	return assembly, code, nil
}
