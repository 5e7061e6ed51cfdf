package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/salmannsharif/User-Profile-Manager/internal/api/metrics"
	"github.com/salmannsharif/User-Profile-Manager/internal/core/domain"
	"github.com/salmannsharif/User-Profile-Manager/internal/core/ports"
)

const (
	profilePart = "profile"
	imagePart   = "image"
)

// ProfileHandler serves the v1 (full) and v2 (simple) profile endpoints.
type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// CreateV1 handles POST /v1/api/profiles.
//
// @Summary      Create a profile
// @Description  Accepts multipart/form-data with a JSON "profile" part and an optional "image" part, or a plain JSON body.
// @Tags         profiles
// @Accept       multipart/form-data,json
// @Produce      json
// @Security     BearerAuth
// @Param        profile  formData  string  false  "Profile JSON"
// @Param        image    formData  file    false  "JPEG or PNG image"
// @Success      201      {object}  profileResponse
// @Failure      400      {object}  errorBody
// @Failure      401      {object}  errorBody
// @Router       /v1/api/profiles [post]
func (h *ProfileHandler) CreateV1(c echo.Context) error {
	req, img, err := h.bindProfile(c)
	if err != nil {
		return err
	}

	p, err := h.service.CreateProfile(c.Request().Context(), toCreateInput(req, img))
	if err != nil {
		return err
	}
	metrics.ProfilesCreatedTotal.WithLabelValues("v1").Inc()

	return c.JSON(http.StatusCreated, toProfileResponse(p))
}

// CreateV2 handles POST /v2/api/profiles.
//
// @Summary      Create a profile from name and email
// @Tags         profiles
// @Accept       json,mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      simpleProfileRequest  true  "Name and email, or a multipart \"profile\" part holding the same JSON"
// @Success      201   {object}  simpleProfileResponse
// @Failure      400   {object}  errorBody
// @Router       /v2/api/profiles [post]
func (h *ProfileHandler) CreateV2(c echo.Context) error {
	var req simpleProfileRequest
	if err := bindProfileFields(c, &req); err != nil {
		return err
	}

	p, err := h.service.CreateSimpleProfile(c.Request().Context(), ports.SimpleProfileInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return err
	}
	metrics.ProfilesCreatedTotal.WithLabelValues("v2").Inc()

	return c.JSON(http.StatusCreated, toSimpleResponse(p))
}

// Update handles PUT /api/profiles/:id.
//
// @Summary      Update a profile
// @Tags         profiles
// @Accept       multipart/form-data,json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int     true   "Profile ID"
// @Param        profile  formData  string  false  "Profile JSON"
// @Param        image    formData  file    false  "JPEG or PNG image"
// @Success      200      {object}  profileResponse
// @Failure      400      {object}  errorBody
// @Failure      404      {object}  errorBody
// @Failure      409      {object}  errorBody
// @Router       /api/profiles/{id} [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	id, err := profileID(c)
	if err != nil {
		return err
	}
	req, img, err := h.bindProfile(c)
	if err != nil {
		return err
	}

	p, err := h.service.UpdateProfile(c.Request().Context(), id, toUpdateInput(req, img))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(p))
}

// UpdateImage handles PUT /api/profiles/:id/image.
//
// @Summary      Replace a profile image
// @Tags         profiles
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      int   true  "Profile ID"
// @Param        image  formData  file  true  "JPEG or PNG image"
// @Success      200    {object}  profileResponse
// @Failure      400    {object}  errorBody
// @Failure      404    {object}  errorBody
// @Router       /api/profiles/{id}/image [put]
func (h *ProfileHandler) UpdateImage(c echo.Context) error {
	id, err := profileID(c)
	if err != nil {
		return err
	}
	img, err := readImage(c)
	if err != nil {
		return err
	}
	if img == nil {
		img = &ports.ImageUpload{}
	}

	p, err := h.service.UpdateProfileImage(c.Request().Context(), id, *img)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(p))
}

// GetImage handles GET /api/profiles/:id/image.
//
// @Summary      Download a profile image
// @Tags         profiles
// @Produce      image/jpeg,image/png
// @Security     BearerAuth
// @Param        id             path    int     true   "Profile ID"
// @Param        If-None-Match  header  string  false  "Checksum from a previous download"
// @Success      200
// @Success      304
// @Failure      404  {object}  errorBody
// @Router       /api/profiles/{id}/image [get]
func (h *ProfileHandler) GetImage(c echo.Context) error {
	id, err := profileID(c)
	if err != nil {
		return err
	}

	img, err := h.service.GetProfileImage(c.Request().Context(), id)
	if err != nil {
		return err
	}

	etag := `"` + img.Checksum + `"`
	c.Response().Header().Set("ETag", etag)
	c.Response().Header().Set("Cache-Control", "private, max-age=0, must-revalidate")
	if match := c.Request().Header.Get("If-None-Match"); match != "" && etagMatches(match, etag) {
		return c.NoContent(http.StatusNotModified)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", img.FileName))
	return c.Blob(http.StatusOK, img.ContentType, img.Data)
}

func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}

// ListV1 handles GET /v1/api/profiles.
//
// @Summary      List profiles
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int  false  "Zero-based page"    default(0)
// @Param        size    query     int  false  "Page size"          default(5)
// @Param        offset  query     int  false  "Row offset, overrides page"
// @Param        limit   query     int  false  "Row limit, overrides size"
// @Success      200     {object}  pageResponse[profileResponse]
// @Failure      400     {object}  errorBody
// @Router       /v1/api/profiles [get]
func (h *ProfileHandler) ListV1(c echo.Context) error {
	page, err := h.list(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPageResponse(page, toProfileResponse))
}

// ListV2 handles GET /v2/api/profiles.
//
// @Summary      List profiles (name and email only)
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "Zero-based page"  default(0)
// @Param        size  query     int  false  "Page size"        default(5)
// @Success      200   {object}  pageResponse[simpleProfileResponse]
// @Router       /v2/api/profiles [get]
func (h *ProfileHandler) ListV2(c echo.Context) error {
	page, err := h.list(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPageResponse(page, toSimpleResponse))
}

func (h *ProfileHandler) list(c echo.Context) (*domain.ProfilePage, error) {
	req, err := pageRequest(c)
	if err != nil {
		return nil, err
	}
	return h.service.ListProfiles(c.Request().Context(), req)
}

// GetV1 handles GET /v1/api/profiles/:id.
//
// @Summary      Get a profile
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Profile ID"
// @Success      200  {object}  profileResponse
// @Failure      404  {object}  errorBody
// @Router       /v1/api/profiles/{id} [get]
func (h *ProfileHandler) GetV1(c echo.Context) error {
	p, err := h.get(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(p))
}

// GetV2 handles GET /v2/api/profiles/:id.
//
// @Summary      Get a profile (name and email only)
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Profile ID"
// @Success      200  {object}  simpleProfileResponse
// @Failure      404  {object}  errorBody
// @Router       /v2/api/profiles/{id} [get]
func (h *ProfileHandler) GetV2(c echo.Context) error {
	p, err := h.get(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSimpleResponse(p))
}

func (h *ProfileHandler) get(c echo.Context) (*domain.Profile, error) {
	id, err := profileID(c)
	if err != nil {
		return nil, err
	}
	return h.service.GetProfile(c.Request().Context(), id)
}

// Delete handles DELETE /v1/api/profiles/:id and /v2/api/profiles/:id.
//
// @Summary      Delete a profile
// @Tags         profiles
// @Security     BearerAuth
// @Param        id   path  int  true  "Profile ID"
// @Success      204
// @Failure      403  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /v1/api/profiles/{id} [delete]
func (h *ProfileHandler) Delete(c echo.Context) error {
	id, err := profileID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteProfile(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func profileID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("Profile id must be a positive integer")
	}
	return id, nil
}

// bindProfile reads the profile fields and optional image from a multipart
// request, or the fields alone from any other body.
func (h *ProfileHandler) bindProfile(c echo.Context) (profileRequest, *ports.ImageUpload, error) {
	var req profileRequest
	if err := bindProfileFields(c, &req); err != nil {
		return req, nil, err
	}
	img, err := readImage(c)
	return req, img, err
}

// bindProfileFields decodes and validates dst from the JSON "profile" part
// of a multipart request, or from the body of any other request.
func bindProfileFields(c echo.Context, dst any) error {
	if !isMultipart(c) {
		if err := c.Bind(dst); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
		}
		return c.Validate(dst)
	}

	raw, err := multipartValue(c, profilePart)
	if err != nil {
		return err
	}
	if raw == nil {
		return domain.NewValidationError("Profile part is required")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return domain.NewValidationError("Profile part must be valid JSON")
	}
	return c.Validate(dst)
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

// multipartValue returns a named part whether it was sent as a plain field
// or as a file part with its own content type.
func multipartValue(c echo.Context, name string) ([]byte, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid multipart request")
	}
	if vals := form.Value[name]; len(vals) > 0 {
		return []byte(vals[0]), nil
	}
	if files := form.File[name]; len(files) > 0 {
		return readPart(files[0])
	}
	return nil, nil
}

// readImage returns nil when no image part was sent.
func readImage(c echo.Context) (*ports.ImageUpload, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	fh, err := c.FormFile(imagePart)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid multipart request")
	}

	data, err := readPart(fh)
	if err != nil {
		return nil, err
	}
	return &ports.ImageUpload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Data:        data,
	}, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open part %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read part %s: %w", fh.Filename, err)
	}
	return data, nil
}
