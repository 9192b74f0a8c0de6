// Hacker Launcher
// Copyright (c) 2026 The Hacker Launcher Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Hacker Launcher.
//
// Hacker Launcher is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Hacker Launcher is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Hacker Launcher.  If not, see <http://www.gnu.org/licenses/>.

package games

import (
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/rs/zerolog/log"
)

// MinTitleSimilarity is the lowest Jaro-Winkler score a fuzzy title match
// may have.
const MinTitleSimilarity float32 = 0.88

func normalizeTitle(s string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ' ' || r == '_' || r == '-' || r == ':' || r == '.'
	}), " ")
}

// Find resolves a query to a game: an exact id first, then a title match
// ignoring case and punctuation, then the closest title by Jaro-Winkler
// similarity.
func (l *Library) Find(query string) (Game, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if i := l.index(query); i >= 0 {
		return l.games[i], true
	}

	q := normalizeTitle(query)
	if q == "" {
		return Game{}, false
	}

	best, bestScore := -1, float32(0)
	for i := range l.games {
		title := normalizeTitle(l.games[i].Title)
		if title == q {
			return l.games[i], true
		}
		score := edlib.JaroWinklerSimilarity(q, title)
		if score > 0.7 {
			log.Debug().
				Str("query", q).
				Str("candidate", title).
				Float32("similarity", score).
				Msg("fuzzy title candidate")
		}
		if score >= MinTitleSimilarity && score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return Game{}, false
	}
	return l.games[best], true
}
