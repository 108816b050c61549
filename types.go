package firmsite

import (
	"github.com/goliatone/go-firmsite/entities"
	statecmd "github.com/goliatone/go-firmsite/internal/commands/state"
	"github.com/goliatone/go-firmsite/internal/forms"
	"github.com/goliatone/go-firmsite/internal/gateway"
	"github.com/goliatone/go-firmsite/internal/genai"
	"github.com/goliatone/go-firmsite/internal/imagesearch"
	"github.com/goliatone/go-firmsite/internal/markdown"
	"github.com/goliatone/go-firmsite/internal/reconcile"
	"github.com/goliatone/go-firmsite/internal/remote"
	"github.com/goliatone/go-firmsite/pkg/interfaces"
)

// State aliases the whole application state.
type State = entities.State

// Gateway exports the mutation gateway contract.
type Gateway = gateway.Gateway

// Patch exports the top-level replacement patch.
type Patch = gateway.Patch

// ChangeEvent exports the gateway change notification.
type ChangeEvent = gateway.ChangeEvent

// Document exports the untyped snapshot document.
type Document = reconcile.Document

// RemoteBackend exports the remote sync backend contract.
type RemoteBackend = remote.Backend

// Upload exports the image upload payload.
type Upload = remote.Upload

// Commands exports the state command handler bundle.
type Commands = statecmd.Handlers

// Generator exports the article draft generator.
type Generator = genai.Generator

// Draft exports a generated article draft.
type Draft = genai.Draft

// ImageSearch exports the image search client.
type ImageSearch = imagesearch.Searcher

// Image exports an image search hit.
type Image = imagesearch.Image

// FormService exports the form submission service.
type FormService = forms.Service

// FormValues exports raw form input.
type FormValues = forms.Values

// FormResult exports the outcome of a form submission.
type FormResult = forms.Result

// ArticleImporter exports the markdown article importer.
type ArticleImporter = markdown.Importer

// ActivitySink exports the activity sink contract.
type ActivitySink = interfaces.ActivitySink

// ActivityRecord exports the activity record DTO.
type ActivityRecord = interfaces.ActivityRecord
