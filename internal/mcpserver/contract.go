package mcpserver

// RecipeFormatContract describes the recipe document formats accepted by
// upload_recipe and produced by get_recipe.
const RecipeFormatContract = `# Paprika Recipe Document Format

A recipe document holds exactly one recipe. Three encodings are accepted;
Markdown is the default.

## Markdown

` + "```" + `markdown
---
uid: 6c4c731e-847d-4e80-a138-125a3a69c5b7   # OPTIONAL - omit to create a new recipe
name: Birria tacos                          # REQUIRED unless the first H1 gives it
servings: "6"
prep_time: 30 min
cook_time: 3 hours
source: A Cozy Kitchen
source_url: https://www.acozykitchen.com/birria-tacos
categories:
  - Mexican
rating: 5                                   # 0 to 5
on_favorites: true
---

# Birria tacos

## Description

Stewed beef tacos dipped in consommé.

## Ingredients

2 lb chuck roast
4 guajillo chiles

## Directions

Toast the chiles.
Braise for 3 hours.

## Notes

## Nutrition
` + "```" + `

The sections ` + "`## Description`, `## Ingredients`, `## Directions`, `## Notes`" + `
and ` + "`## Nutrition`" + ` fill the matching text fields. Headings are matched without
regard to case; any other heading is kept as text of the section it appears in.
Empty sections may be left out.

## JSON and YAML

The same fields with the service's names: ` + "`uid`, `name`, `ingredients`, `directions`,\n`description`, `notes`, `nutritional_info`, `servings`, `difficulty`, `prep_time`,\n`cook_time`, `total_time`, `source`, `source_url`, `image_url`, `categories`, `rating`,\n`in_trash`, `is_pinned`, `on_favorites`, `on_grocery_list`, `created`" + `.

## Rules

1. ` + "`name`" + ` is required.
2. ` + "`uid`" + ` is empty or a UUID. Uploading with an existing uid replaces that recipe.
3. ` + "`rating`" + ` is an integer from 0 to 5.
4. ` + "`hash`" + ` is computed on upload; any value in the document is replaced.
5. ` + "`categories`" + ` lists category names, not uids.
`
