package domain

import (
	"context"
	"errors"
	"time"

	"github.com/mantra-lab/backend/internal/entity"
	"github.com/mantra-lab/backend/internal/model"
	"github.com/mantra-lab/backend/internal/repository"
	"github.com/mantra-lab/backend/pkg/api"
	"github.com/mantra-lab/backend/pkg/api/n8n"
	"github.com/mantra-lab/backend/pkg/authenticator"
	"github.com/mantra-lab/backend/pkg/errorx"
	"github.com/mantra-lab/backend/pkg/workflow"
	"github.com/mantra-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

const maxListLimit = 100

type MantraDomain interface {
	Create(ctx context.Context, req *model.CreateMantraRequest) (*model.CreateMantraResponse, error)
	Get(ctx context.Context, req *model.GetMantraRequest) (*model.GetMantraResponse, error)
	GetList(ctx context.Context, req *model.GetListMantraRequest) (*model.GetListMantraResponse, error)
	Install(ctx context.Context, req *model.InstallMantraRequest) (*model.InstallMantraResponse, error)
	Uninstall(ctx context.Context, req *model.UninstallMantraRequest) (*model.UninstallMantraResponse, error)
	Execute(ctx context.Context, req *model.ExecuteMantraRequest) (*model.ExecuteMantraResponse, error)
	GetInstalled(ctx context.Context, req *model.GetInstalledMantrasRequest) (*model.GetInstalledMantrasResponse, error)
}

type mantraDomain struct {
	credentialResolver

	mantraRepo       repository.MantraRepository
	installationRepo repository.InstallationRepository
	userRepo         repository.UserRepository
	engine           n8n.Engine
}

func NewMantraDomain(
	mantraRepo repository.MantraRepository,
	installationRepo repository.InstallationRepository,
	userRepo repository.UserRepository,
	credentialRepo repository.CredentialRepository,
	google *authenticator.GoogleOAuth,
	engine n8n.Engine,
) *mantraDomain {
	return &mantraDomain{
		credentialResolver: credentialResolver{
			credentialRepo: credentialRepo,
			google:         google,
		},
		mantraRepo:       mantraRepo,
		installationRepo: installationRepo,
		userRepo:         userRepo,
		engine:           engine,
	}
}

func (d *mantraDomain) Create(
	ctx context.Context, req *model.CreateMantraRequest,
) (*model.CreateMantraResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty mantra name")
	}

	if _, err := workflow.Parse(req.Definition); err != nil {
		return nil, templateError(err)
	}

	mantra := &entity.Mantra{
		Name:        req.Name,
		Description: req.Description,
		Definition:  entity.Map(req.Definition),
		CreatedBy:   xcontext.RequestUserID(ctx),
		IsActive:    true,
	}
	if err := d.mantraRepo.Create(ctx, mantra); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create the mantra: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateMantraResponse{ID: mantra.ID}, nil
}

func (d *mantraDomain) Get(
	ctx context.Context, req *model.GetMantraRequest,
) (*model.GetMantraResponse, error) {
	mantra, err := d.mantraRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found mantra")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the mantra: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetMantraResponse{Mantra: convertMantra(mantra, true)}, nil
}

func (d *mantraDomain) GetList(
	ctx context.Context, req *model.GetListMantraRequest,
) (*model.GetListMantraResponse, error) {
	if req.Limit == 0 {
		req.Limit = maxListLimit
	}
	if req.Limit < 0 || req.Limit > maxListLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum limit of %d", maxListLimit)
	}

	mantras, err := d.mantraRepo.GetList(ctx, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list the mantras: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetListMantraResponse{Mantras: make([]model.Mantra, 0, len(mantras))}
	for i := range mantras {
		resp.Mantras = append(resp.Mantras, convertMantra(&mantras[i], false))
	}

	return resp, nil
}

// Install materializes the mantra for the caller and activates it on the
// engine. Remote state is created before the local record; any failure in
// between triggers a compensating delete so the engine does not accumulate
// orphans.
func (d *mantraDomain) Install(
	ctx context.Context, req *model.InstallMantraRequest,
) (*model.InstallMantraResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	mantra, err := d.mantraRepo.GetByID(ctx, req.MantraID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found mantra")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the mantra: %v", err)
		return nil, errorx.Unknown
	}

	if existing, err := d.installationRepo.GetByMantraAndUser(ctx, mantra.ID, userID); err == nil {
		if existing.IsActive {
			return nil, errorx.New(errorx.AlreadyExists, "You already installed this mantra")
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check the existing installation: %v", err)
		return nil, errorx.Unknown
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load the user: %v", err)
		return nil, errorx.Unknown
	}

	if _, err := d.freshGoogleToken(ctx, userID); err != nil {
		return nil, err
	}

	parsed, err := workflow.Parse(mantra.Definition)
	if err != nil {
		return nil, templateError(err)
	}

	binding := workflow.Binding{
		"user": map[string]any{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
		},
	}.Merge(workflow.Binding(req.Config))

	transformed, err := workflow.Transform(parsed, binding, workflow.CredentialRef{
		ID:   userID + "-" + entity.ProviderGoogle,
		Name: entity.ProviderGoogle + " " + user.Email,
	})
	if err != nil {
		return nil, templateError(err)
	}

	doc, err := transformed.Document()
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot serialize the workflow: %v", err)
		return nil, errorx.Unknown
	}

	// From here on remote state may exist; a canceled request must not leave
	// the compensation half-done.
	engineCtx := context.WithoutCancel(ctx)

	workflowID, err := d.engine.CreateWorkflow(engineCtx, api.JSON(doc))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create the remote workflow: %v", err)
		return nil, errorx.New(errorx.Unavailable, "The automation engine is unavailable")
	}

	if err := d.engine.ActivateWorkflow(engineCtx, workflowID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot activate the remote workflow: %v", err)
		return nil, d.cleanupRemote(engineCtx, workflowID, err)
	}

	installation := &entity.Installation{
		MantraID:         mantra.ID,
		UserID:           userID,
		EngineWorkflowID: workflowID,
		IsActive:         true,
		Config:           entity.Map(req.Config),
	}
	if err := d.installationRepo.Create(engineCtx, installation); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot persist the installation: %v", err)
		return nil, d.cleanupRemote(engineCtx, workflowID, err)
	}

	return &model.InstallMantraResponse{
		Installation: convertInstallation(installation, mantra.Name),
	}, nil
}

// Uninstall deletes remote first. The local record survives until the engine
// confirms the workflow is gone or was already gone.
func (d *mantraDomain) Uninstall(
	ctx context.Context, req *model.UninstallMantraRequest,
) (*model.UninstallMantraResponse, error) {
	installation, err := d.ownedInstallation(ctx, req.InstallationID)
	if err != nil {
		return nil, err
	}

	engineCtx := context.WithoutCancel(ctx)

	if err := d.engine.DeactivateWorkflow(engineCtx, installation.EngineWorkflowID); err != nil {
		if !errors.Is(err, api.ErrNotFound) {
			xcontext.Logger(ctx).Warnf("Cannot deactivate the remote workflow: %v", err)
		}
	}

	if err := d.engine.DeleteWorkflow(engineCtx, installation.EngineWorkflowID); err != nil {
		if !errors.Is(err, api.ErrNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot delete the remote workflow: %v", err)
			return nil, errorx.New(errorx.Unavailable,
				"Cannot remove the remote workflow, please try again")
		}
	}

	if err := d.installationRepo.DeleteByID(engineCtx, installation.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete the installation: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UninstallMantraResponse{}, nil
}

func (d *mantraDomain) Execute(
	ctx context.Context, req *model.ExecuteMantraRequest,
) (*model.ExecuteMantraResponse, error) {
	installation, err := d.ownedInstallation(ctx, req.InstallationID)
	if err != nil {
		return nil, err
	}

	if !installation.IsActive {
		return nil, ErrInstallationNotActive
	}

	result, err := d.engine.ExecuteWorkflow(ctx, installation.EngineWorkflowID, api.JSON(req.Payload))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot execute the remote workflow: %v", err)
		return nil, errorx.New(errorx.Unavailable, "The automation engine is unavailable")
	}

	return &model.ExecuteMantraResponse{Result: result}, nil
}

func (d *mantraDomain) GetInstalled(
	ctx context.Context, _ *model.GetInstalledMantrasRequest,
) (*model.GetInstalledMantrasResponse, error) {
	installations, err := d.installationRepo.GetByUserID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list the installations: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetInstalledMantrasResponse{
		Installations: make([]model.Installation, 0, len(installations)),
	}
	for i := range installations {
		resp.Installations = append(resp.Installations,
			convertInstallation(&installations[i], installations[i].Mantra.Name))
	}

	return resp, nil
}

func (d *mantraDomain) ownedInstallation(
	ctx context.Context, id string,
) (*entity.Installation, error) {
	installation, err := d.installationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found installation")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the installation: %v", err)
		return nil, errorx.Unknown
	}

	if installation.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "The installation belongs to another user")
	}

	return installation, nil
}

func (d *mantraDomain) cleanupRemote(ctx context.Context, workflowID string, cause error) error {
	if err := d.engine.DeleteWorkflow(ctx, workflowID); err != nil && !errors.Is(err, api.ErrNotFound) {
		cleanup := RemoteCleanupError{RemoteID: workflowID, Cause: cause, CleanupErr: err}
		xcontext.Logger(ctx).Errorf("%v", cleanup)
		return cleanup.Errorx()
	}

	return errorx.New(errorx.Unavailable, "Failed to install the mantra, please try again")
}

func templateError(err error) error {
	var validation workflow.ValidationError
	if errors.As(err, &validation) {
		return errorx.New(errorx.BadRequest, "Invalid mantra definition").
			WithDetails(map[string]any{
				"field":  validation.Field,
				"reason": validation.Reason,
			})
	}

	var unbound workflow.UnboundPlaceholderError
	if errors.As(err, &unbound) {
		return errorx.New(errorx.BadRequest, "The configuration misses a required value").
			WithDetails(map[string]any{"placeholder": unbound.Key})
	}

	return errorx.Unknown
}

func convertMantra(mantra *entity.Mantra, includeDefinition bool) model.Mantra {
	converted := model.Mantra{
		ID:          mantra.ID,
		Name:        mantra.Name,
		Description: mantra.Description,
		CreatedBy:   mantra.CreatedBy,
		IsActive:    mantra.IsActive,
		CreatedAt:   mantra.CreatedAt.Format(time.RFC3339),
	}
	if includeDefinition {
		converted.Definition = mantra.Definition
	}

	return converted
}

func convertInstallation(installation *entity.Installation, mantraName string) model.Installation {
	return model.Installation{
		ID:               installation.ID,
		MantraID:         installation.MantraID,
		MantraName:       mantraName,
		EngineWorkflowID: installation.EngineWorkflowID,
		IsActive:         installation.IsActive,
		Config:           installation.Config,
		CreatedAt:        installation.CreatedAt.Format(time.RFC3339),
	}
}
