// Package lang implements the S-Lang front end: a lexer and parser that
// translate declarative soliton programs into G-ISA instructions.
//
// Grammar:
//
//	program <name>:
//	    soliton <name> = <0|1|H>;
//	    <name>.roll();
//	    entangle(<a>, <b>);
//	    result = measure(<name>);
//
// The front end is deliberately permissive: the lexer skips characters it
// does not recognize and the parser skips statements it cannot place, so
// malformed fragments surface later (or not at all) instead of aborting
// the parse. Required tokens inside a recognized statement are still
// enforced and produce a SyntaxError with the offending line.
package lang
