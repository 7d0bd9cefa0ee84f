// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the Paprika account as tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/paprika/internal/recipefile"
	"github.com/starford/paprika/pkg/paprika"
)

// FormatURI is the resource holding RecipeFormatContract.
const FormatURI = "paprika://recipe-format"

// Recipes is the account the tools operate on.
type Recipes interface {
	Recipes(ctx context.Context) ([]paprika.RecipeEntry, error)
	Categories(ctx context.Context) ([]paprika.Category, error)
	Recipe(ctx context.Context, uid string) (*paprika.Recipe, error)
	Upload(ctx context.Context, r *paprika.Recipe) error
}

// Server wraps the MCP server with the recipe tools.
type Server struct {
	mcp     *server.MCPServer
	recipes Recipes
}

// New creates a new MCP server with all recipe tools registered.
func New(recipes Recipes, version string) *Server {
	s := &Server{recipes: recipes}

	s.mcp = server.NewMCPServer(
		"Paprika",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_recipes",
		mcp.WithDescription("List every recipe in the account as uid and content hash pairs."),
	), s.listRecipes)

	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List recipe categories."),
		mcp.WithBoolean("tree", mcp.Description("Render categories as an indented tree instead of JSON")),
	), s.listCategories)

	s.mcp.AddTool(mcp.NewTool("get_recipe",
		mcp.WithDescription("Fetch one full recipe."),
		mcp.WithString("uid", mcp.Required(), mcp.Description("Recipe uid as returned by list_recipes")),
		mcp.WithString("format", mcp.Description("markdown (default), yaml or json")),
	), s.getRecipe)

	s.mcp.AddTool(mcp.NewTool("upload_recipe",
		mcp.WithDescription("Create or replace a recipe. "+
			"Content MUST follow the recipe document format. Read it first via the "+
			"get_recipe_format tool or the "+FormatURI+" resource. "+
			"Omit uid to create a new recipe; the assigned uid is returned."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Recipe document")),
		mcp.WithString("format", mcp.Description("markdown (default), yaml or json")),
	), s.uploadRecipe)

	s.mcp.AddTool(mcp.NewTool("get_recipe_format",
		mcp.WithDescription("Returns the recipe document format. "+
			"Call this before uploading recipes to ensure correct structure."),
	), s.getRecipeFormat)

	s.mcp.AddResource(
		mcp.NewResource(FormatURI, "Recipe Document Format",
			mcp.WithResourceDescription("Recipe document formats accepted by upload_recipe."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readRecipeFormatResource,
	)

	return s
}

// Serve runs the stdio transport on in and out until ctx is cancelled or
// in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listRecipes(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := s.recipes.Recipes(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(entries, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cats, err := s.recipes.Categories(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !req.GetBool("tree", false) {
		out, _ := json.MarshalIndent(cats, "", "  ")
		return mcp.NewToolResultText(string(out)), nil
	}

	var b strings.Builder
	for _, root := range paprika.BuildCategoryTree(cats) {
		root.Walk(func(n *paprika.CategoryNode, depth int) {
			fmt.Fprintf(&b, "%s- %s (%s)\n", strings.Repeat("  ", depth), n.Name, n.UID)
		})
	}
	if b.Len() == 0 {
		return mcp.NewToolResultText("no categories"), nil
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) getRecipe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, err := req.RequireString("uid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format, err := recipefile.ParseFormat(req.GetString("format", string(recipefile.FormatMarkdown)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	r, err := s.recipes.Recipe(ctx, uid)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := recipefile.Render(r, format)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) uploadRecipe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format, err := recipefile.ParseFormat(req.GetString("format", string(recipefile.FormatMarkdown)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	r, err := recipefile.Parse([]byte(content), format)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := recipefile.Validate(r); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.recipes.Upload(ctx, r); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, _ := json.MarshalIndent(r.Entry(), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getRecipeFormat(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(RecipeFormatContract), nil
}

func (s *Server) readRecipeFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      FormatURI,
			MIMEType: "text/markdown",
			Text:     RecipeFormatContract,
		},
	}, nil
}
