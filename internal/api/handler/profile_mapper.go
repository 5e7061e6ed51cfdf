package handler

import (
	"strconv"

	"github.com/salmannsharif/User-Profile-Manager/internal/core/domain"
	"github.com/salmannsharif/User-Profile-Manager/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req profileRequest, img *ports.ImageUpload) ports.CreateProfileInput {
	return ports.CreateProfileInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
		Role:     req.Role,
		Image:    img,
	}
}

func toUpdateInput(req profileRequest, img *ports.ImageUpload) ports.UpdateProfileInput {
	return ports.UpdateProfileInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
		Role:     req.Role,
		Image:    img,
	}
}

// --- Service result → HTTP response ---

func imageURL(id int64) string {
	return "/api/profiles/" + strconv.FormatInt(id, 10) + "/image"
}

func toProfileResponse(p *domain.Profile) profileResponse {
	resp := profileResponse{
		ID:      p.ID,
		Name:    p.Name,
		Email:   p.Email,
		Address: p.Address,
		Role:    p.Role,
	}
	if p.Image != nil {
		resp.Image = &imageResponse{
			FileName:    p.Image.FileName,
			Extension:   p.Image.Extension,
			ContentType: p.Image.ContentType,
			Size:        p.Image.Size,
			Checksum:    p.Image.Checksum,
			URL:         imageURL(p.ID),
		}
	}
	return resp
}

func toSimpleResponse(p *domain.Profile) simpleProfileResponse {
	return simpleProfileResponse{Name: p.Name, Email: p.Email}
}

func toPageResponse[T any](page *domain.ProfilePage, project func(*domain.Profile) T) pageResponse[T] {
	content := make([]T, 0, len(page.Items))
	for _, p := range page.Items {
		content = append(content, project(p))
	}
	return pageResponse[T]{
		Content:       content,
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: page.Total,
		TotalPages:    page.TotalPages,
	}
}
