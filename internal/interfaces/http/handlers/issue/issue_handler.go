package issue

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sentra/internal/application/issue/usecases"
	vo "sentra/internal/domain/issue/valueobjects"
	"sentra/internal/shared/constants"
	"sentra/internal/shared/errors"
	"sentra/internal/shared/logger"
	"sentra/internal/shared/utils"
)

type IssueHandler struct {
	createIssueUC  usecases.CreateIssueExecutor
	getIssueUC     usecases.GetIssueExecutor
	listIssuesUC   usecases.ListIssuesExecutor
	addCommentUC   usecases.AddCommentExecutor
	listCommentsUC usecases.ListCommentsExecutor
	updateStatusUC usecases.UpdateStatusExecutor
	logger         logger.Interface
}

func NewIssueHandler(
	createIssueUC usecases.CreateIssueExecutor,
	getIssueUC usecases.GetIssueExecutor,
	listIssuesUC usecases.ListIssuesExecutor,
	addCommentUC usecases.AddCommentExecutor,
	listCommentsUC usecases.ListCommentsExecutor,
	updateStatusUC usecases.UpdateStatusExecutor,
) *IssueHandler {
	return &IssueHandler{
		createIssueUC:  createIssueUC,
		getIssueUC:     getIssueUC,
		listIssuesUC:   listIssuesUC,
		addCommentUC:   addCommentUC,
		listCommentsUC: listCommentsUC,
		updateStatusUC: updateStatusUC,
		logger:         logger.NewLogger(),
	}
}

// identity pulls the authenticated user out of the gin context.
func identity(c *gin.Context) (userID uint, userType vo.UserType, displayName string, err error) {
	rawID, ok := c.Get(constants.ContextKeyUserID)
	if !ok {
		return 0, "", "", errors.NewUnauthorizedError("missing authentication")
	}
	userID, ok = rawID.(uint)
	if !ok || userID == 0 {
		return 0, "", "", errors.NewUnauthorizedError("invalid authentication")
	}

	rawType, _ := c.Get(constants.ContextKeyUserType)
	typeStr, _ := rawType.(string)
	userType, ok = vo.ParseUserType(typeStr)
	if !ok {
		return 0, "", "", errors.NewUnauthorizedError("invalid user type")
	}

	rawName, _ := c.Get(constants.ContextKeyDisplayName)
	displayName, _ = rawName.(string)

	return userID, userType, displayName, nil
}

// CreateIssue handles POST /issues
// @Summary Report a new issue
// @Description Report a new workplace safety issue
// @Tags issues
// @Accept json
// @Produce json
// @Security Bearer
// @Param issue body CreateIssueRequest true "Issue data"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /issues [post]
func (h *IssueHandler) CreateIssue(c *gin.Context) {
	var req CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create issue", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, _, _, err := identity(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.createIssueUC.Execute(c.Request.Context(), req.ToCommand(userID))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Issue reported successfully")
}

// GetIssue handles GET /issues/:id
// @Summary Get issue by ID
// @Description Get details of a reported issue
// @Tags issues
// @Produce json
// @Security Bearer
// @Param id path int true "Issue ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /issues/{id} [get]
func (h *IssueHandler) GetIssue(c *gin.Context) {
	issueID, err := parseIssueID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	userID, userType, _, err := identity(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getIssueUC.Execute(c.Request.Context(), usecases.GetIssueQuery{
		IssueID:  issueID,
		UserID:   userID,
		UserType: userType,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListIssues handles GET /issues
// @Summary List issues
// @Description Get a paginated list of issues. Employees see only their own reports.
// @Tags issues
// @Produce json
// @Security Bearer
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param status query string false "Status filter" Enums(pending, in_progress, resolved)
// @Success 200 {object} utils.APIResponse
// @Router /issues [get]
func (h *IssueHandler) ListIssues(c *gin.Context) {
	req, err := parseListIssuesRequest(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	userID, userType, _, err := identity(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.listIssuesUC.Execute(c.Request.Context(), usecases.ListIssuesQuery{
		Status:   req.Status,
		Page:     req.Page,
		PageSize: req.PageSize,
		UserID:   userID,
		UserType: userType,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Issues, result.Total, req.Page, req.PageSize)
}

// ListComments handles GET /issues/:id/comments
// @Summary Get a page of an issue's discussion thread
// @Description Returns comments newest-first. Page 1 holds the most recent comments; an empty page means the end of history.
// @Tags issues
// @Produce json
// @Security Bearer
// @Param id path int true "Issue ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20) maximum(100)
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /issues/{id}/comments [get]
func (h *IssueHandler) ListComments(c *gin.Context) {
	issueID, err := parseIssueID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	userID, userType, _, err := identity(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	pagination := utils.ParsePagination(c)

	result, err := h.listCommentsUC.Execute(c.Request.Context(), usecases.ListCommentsQuery{
		IssueID:  issueID,
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
		UserID:   userID,
		UserType: userType,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Comments, result.Total, result.Page, result.PageSize)
}

// AddComment handles POST /issues/:id/comments
// @Summary Post a comment to an issue's thread
// @Description Persists the comment and pushes it to all thread subscribers
// @Tags issues
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Issue ID"
// @Param comment body AddCommentRequest true "Comment data"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /issues/{id}/comments [post]
func (h *IssueHandler) AddComment(c *gin.Context) {
	issueID, err := parseIssueID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for add comment", "issue_id", issueID, "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, userType, displayName, err := identity(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.addCommentUC.Execute(c.Request.Context(), usecases.AddCommentCommand{
		IssueID:     issueID,
		UserID:      userID,
		UserType:    userType,
		DisplayName: displayName,
		Content:     req.Content,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result.Comment, "Comment posted successfully")
}

// UpdateIssue handles PUT /issues/:id/update
// @Summary Update issue status with an optional comment
// @Description Commits the status transition first; a failed comment is reported in the response without rolling the status back
// @Tags issues
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Issue ID"
// @Param update body UpdateIssueRequest true "Status update"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /issues/{id}/update [put]
func (h *IssueHandler) UpdateIssue(c *gin.Context) {
	issueID, err := parseIssueID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update issue", "issue_id", issueID, "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, userType, displayName, err := identity(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	status, ok := vo.ParseStatus(req.Status)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid status"))
		return
	}

	result, err := h.updateStatusUC.Execute(c.Request.Context(), usecases.UpdateStatusCommand{
		IssueID:     issueID,
		NewStatus:   status,
		Comment:     req.Comment,
		UserID:      userID,
		UserType:    userType,
		DisplayName: displayName,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
