package recipe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	numberRe = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// FetchHTML downloads a page holding a recipe table.
func FetchHTML(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "recipe-finder/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// ParseRecipeTable extracts recipes from the first HTML table matching
// selector ("table" when empty). The header row names the columns; title and
// ingredients are required, calories, time and instructions are optional.
// Returned recipes have no ids.
func ParseRecipeTable(r io.Reader, selector string) ([]Recipe, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	if selector == "" {
		selector = "table"
	}

	table := doc.Find(selector).First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no table matches %q", selector)
	}

	rows := table.Find("tr")
	if rows.Length() == 0 {
		return nil, fmt.Errorf("table %q has no rows", selector)
	}

	columns := map[string]int{}
	rows.First().Find("th, td").Each(func(i int, cell *goquery.Selection) {
		columns[strings.ToLower(cleanText(cell.Text()))] = i
	})
	for _, required := range []string{"title", "ingredients"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing required column: %s", required)
		}
	}

	var recipes []Recipe
	rows.Slice(1, goquery.ToEnd).Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		cell := func(name string) *goquery.Selection {
			idx, ok := columns[name]
			if !ok || idx >= cells.Length() {
				return nil
			}
			return cells.Eq(idx)
		}

		title := ""
		if c := cell("title"); c != nil {
			title = cleanText(c.Text())
		}
		var ingredients []string
		if c := cell("ingredients"); c != nil {
			ingredients = listCell(c, ",")
		}
		if title == "" || len(ingredients) == 0 {
			return
		}

		rec := Recipe{Title: title, Ingredients: ingredients}
		if c := cell("calories"); c != nil {
			rec.Calories = firstNumber(c.Text())
		}
		if c := cell("time"); c != nil {
			rec.CookingTime = int(firstNumber(c.Text()))
		}
		if c := cell("instructions"); c != nil {
			rec.Instructions = listCell(c, ";")
		}
		recipes = append(recipes, rec)
	})

	return recipes, nil
}

// Merge appends recipes whose titles are not yet in the catalog, assigning
// sequential numeric ids after the largest existing one. It returns how many
// recipes were added.
func (c *Catalog) Merge(recipes []Recipe) int {
	next := 0
	titles := make(map[string]struct{}, len(c.Recipes))
	for _, r := range c.Recipes {
		if n, err := strconv.Atoi(r.ID); err == nil && n > next {
			next = n
		}
		titles[strings.ToLower(r.Title)] = struct{}{}
	}

	added := 0
	for _, r := range recipes {
		key := strings.ToLower(r.Title)
		if _, dup := titles[key]; dup {
			continue
		}
		next++
		r.ID = strconv.Itoa(next)
		c.Recipes = append(c.Recipes, r)
		titles[key] = struct{}{}
		added++
	}
	return added
}

// listCell reads <li> entries when present, otherwise splits the text on sep.
func listCell(cell *goquery.Selection, sep string) []string {
	var out []string
	if items := cell.Find("li"); items.Length() > 0 {
		items.Each(func(_ int, li *goquery.Selection) {
			if t := cleanText(li.Text()); t != "" {
				out = append(out, t)
			}
		})
		return out
	}
	for _, part := range strings.Split(cell.Text(), sep) {
		if t := cleanText(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func firstNumber(s string) float64 {
	m := numberRe.FindString(s)
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
	if err != nil {
		return 0
	}
	return f
}

func cleanText(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
