package main

import "strings"

// isValidNick checks the grammar spec section 4.7 gives for NICK: 1-9
// characters, first char a letter or one of the RFC 1459 special
// characters, subsequent chars letters/digits/hyphen/specials.
func isValidNick(nick string) bool {
	if len(nick) < 1 || len(nick) > maxNickLength {
		return false
	}
	for i := 0; i < len(nick); i++ {
		c := nick[i]
		if i == 0 {
			if !isLetter(c) && !isNickSpecial(c) {
				return false
			}
			continue
		}
		if !isLetter(c) && !isDigit(c) && c != '-' && !isNickSpecial(c) {
			return false
		}
	}
	return true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNickSpecial(c byte) bool {
	switch c {
	case '[', ']', '\\', '`', '_', '^', '{', '}', '|':
		return true
	}
	return false
}

// isValidChannelName checks the grammar spec section 3 gives: begins with
// '#' or '&', length <= maxChannelNameLength, no spaces/commas/control
// characters.
func isValidChannelName(name string) bool {
	if len(name) < 2 || len(name) > maxChannelNameLength {
		return false
	}
	if name[0] != '#' && name[0] != '&' {
		return false
	}
	if strings.ContainsAny(name, " ,") {
		return false
	}
	for i := 0; i < len(name); i++ {
		if name[i] < 0x20 || name[i] == 0x7f {
			return false
		}
	}
	return true
}
