package controllers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/blogapi/models"
	"github.com/cppla/blogapi/permissions"
	"github.com/cppla/blogapi/utils"
)

const (
	msgBlogsFetched      = "Blogs fetched successfully"
	msgBlogCreated       = "Blog created successfully"
	msgBlogCreateFailed  = "Blog creation failed"
	msgBlogNotAuthorized = "You are not authorized to create a blog"
)

// BlogController serves blog posts.
type BlogController struct {
	db *gorm.DB
}

// NewBlogController creates a new BlogController instance.
func NewBlogController(db *gorm.DB) *BlogController {
	return &BlogController{db: db}
}

type postResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Image     string    `json:"image"`
	Author    uint      `json:"author"`
	Category  *string   `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newPostResponse(p models.Post) postResponse {
	resp := postResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Image:     p.Image,
		Author:    p.AuthorID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if name := p.CategoryName(); name != "" {
		resp.Category = &name
	}
	return resp
}

// ListBlogs returns posts newest first, optionally filtered by a case-insensitive title search.
func (b *BlogController) ListBlogs(ctx *gin.Context) {
	query := b.db.WithContext(ctx.Request.Context()).Preload("Category").Order("created_at DESC")
	if search := strings.TrimSpace(ctx.Query("search")); search != "" {
		query = query.Where("LOWER(title) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(search))+"%")
	}

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		internalError(ctx, fmt.Errorf("list posts: %w", err))
		return
	}

	items := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		items = append(items, newPostResponse(p))
	}
	utils.Success(ctx, msgBlogsFetched, items)
}

type createBlogRequest struct {
	Title    string `json:"title" form:"title" binding:"required,max=200"`
	Content  string `json:"content" form:"content" binding:"required"`
	Author   *uint  `json:"author" form:"author"`
	Category string `json:"category" form:"category" binding:"max=200"`
	Image    string `json:"image" form:"image" binding:"max=512"`
}

// CreateBlog stores a post owned by the session account. A supplied author must be that account.
func (b *BlogController) CreateBlog(ctx *gin.Context) {
	acct, ok := requireAccount(ctx)
	if !ok {
		return
	}

	var req createBlogRequest
	bindErr := ctx.ShouldBind(&req)
	// ownership is decided before payload validity
	if req.Author != nil {
		if err := permissions.Check(acct, permissions.OwnerOnly(*req.Author)); err != nil {
			failWith(ctx, msgBlogNotAuthorized, err)
			return
		}
	}
	if bindErr != nil {
		failValidation(ctx, msgBlogCreateFailed, utils.BindingError(bindErr))
		return
	}

	title := utils.SanitizeText(strings.TrimSpace(req.Title))
	if title == "" {
		failValidation(ctx, msgBlogCreateFailed, utils.NewValidationError("title", "This field may not be blank."))
		return
	}
	content := utils.SanitizeContent(req.Content)
	if strings.TrimSpace(content) == "" {
		failValidation(ctx, msgBlogCreateFailed, utils.NewValidationError("content", "This field may not be blank."))
		return
	}

	post := models.Post{
		Title:    title,
		Content:  content,
		Image:    strings.TrimSpace(req.Image),
		AuthorID: acct.ID,
	}

	db := b.db.WithContext(ctx.Request.Context())
	if name := utils.SanitizeText(strings.TrimSpace(req.Category)); name != "" {
		cat, err := findCategory(db, name)
		if err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				failValidation(ctx, msgBlogCreateFailed, utils.NewValidationError("category", fmt.Sprintf("Category %q does not exist.", name)))
				return
			}
			internalError(ctx, err)
			return
		}
		post.CategoryID = &cat.ID
		post.Category = cat
	}

	if err := db.Omit("Category").Create(&post).Error; err != nil {
		internalError(ctx, fmt.Errorf("create post: %w", err))
		return
	}

	utils.Created(ctx, msgBlogCreated, newPostResponse(post))
}

// likeEscaper makes a search term match literally inside LIKE ... ESCAPE '!'.
// '!' quotes the same on mysql, postgres and sqlite.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// findCategory looks a category up by its stored (sanitized) name.
func findCategory(db *gorm.DB, name string) (*models.Category, error) {
	var cat models.Category
	if err := db.Where("name = ?", name).First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %q: %w", name, utils.ErrNotFound)
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &cat, nil
}
